package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/lifespan/internal/adapters/http/api"
	service "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T) (http.Handler, *service.Service) {
	t.Helper()
	table, err := factor.New("test", []model.Factor{
		{Name: "Smoking", YearImpact: -7, Question: "Do you smoke?"},
		{Name: "Exercise", YearImpact: 3},
		{Name: "Being a woman", YearImpact: 5, AffectedSex: model.SexFemale},
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	svc := service.New(service.WithTable(table))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, api.WithLogger(logger.Get())).Register(context.Background(), mux)
	return api.RequestIDMiddleware(mux), svc
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(rec *httptest.ResponseRecorder) map[string]string {
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out
}

func TestEstimateEndpoint(t *testing.T) {
	Convey("Given an API server over a three-factor table", t, func() {
		h, svc := newTestServer(t)

		Convey("When posting named responses", func() {
			rec := do(h, http.MethodPost, "/estimate",
				`{"gender":"Male","responses":{"Smoking":"Yes","Exercise":"never","Being a woman":"no"}}`)

			Convey("Then the report reflects the damped smoking impact", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Gender        string  `json:"gender"`
					EstimatedAge  int     `json:"estimated_age"`
					ChangeInAge   float64 `json:"change_in_age"`
					RankedFactors []struct {
						Name       string  `json:"name"`
						Raw        float64 `json:"raw_impact"`
						Adjusted   float64 `json:"adjusted_impact"`
						Percentage float64 `json:"percentage_of_full_impact"`
					} `json:"ranked_factors"`
					NegativeFactors []string `json:"negative_factors"`
					Summary         string   `json:"summary"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Gender, ShouldEqual, "male")
				So(body.ChangeInAge, ShouldAlmostEqual, -1.75, 1e-9)
				So(body.EstimatedAge, ShouldEqual, 73)
				So(body.RankedFactors, ShouldHaveLength, 1)
				So(body.RankedFactors[0].Name, ShouldEqual, "Smoking")
				So(body.RankedFactors[0].Raw, ShouldEqual, -7.0)
				So(body.RankedFactors[0].Adjusted, ShouldAlmostEqual, -1.75, 1e-9)
				So(body.RankedFactors[0].Percentage, ShouldAlmostEqual, 25.0, 1e-9)
				So(body.NegativeFactors, ShouldResemble, []string{"Smoking: -7 years"})
				So(body.Summary, ShouldContainSubstring, "1.75 fewer years")
			})

			Convey("Then a request id is attached", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})

			Convey("Then the service counts it", func() {
				So(svc.GetStats()["estimates"], ShouldEqual, int64(1))
			})
		})

		Convey("When posting positional answers", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":"female","answers":["no","no","yes"]}`)

			Convey("Then the female-only factor counts", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["change_in_age"], ShouldAlmostEqual, 1.25, 1e-9)
				So(body["estimated_age"], ShouldEqual, 76.0)
			})
		})

		Convey("When posting too few answers", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":"male","answers":["no","no"]}`)

			Convey("Then a vector_length error is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindVectorLength)
			})
		})

		Convey("When an answer is unrecognized", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":"male","answers":["maybe","no","no"]}`)

			Convey("Then the error names the raw answer", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				e := decodeError(rec)
				So(e["code"], ShouldEqual, service.KindUnrecognizedResponse)
				So(e["message"], ShouldContainSubstring, "maybe")
			})
		})

		Convey("When a response names an unknown factor", func() {
			rec := do(h, http.MethodPost, "/estimate",
				`{"gender":"male","responses":{"Smoking":"no","Exercise":"no","Juggling":"yes"}}`)

			Convey("Then unknown_factor is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindUnknownFactor)
			})
		})

		Convey("When a weight is out of range", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":"male","input_vector":[0,1.5,0]}`)

			Convey("Then weight_range is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindWeightRange)
			})
		})

		Convey("When the gender is invalid", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":"robot","input_vector":[0,0,0]}`)

			Convey("Then invalid_gender is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindInvalidGender)
			})
		})

		Convey("When the gender is missing", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"input_vector":[0,0,0]}`)

			Convey("Then bad_request is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindBadRequest)
			})
		})

		Convey("When two response shapes are supplied", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":"male","answers":["no","no","no"],"input_vector":[0,0,0]}`)

			Convey("Then bad_request is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindBadRequest)
			})
		})

		Convey("When the body is malformed", func() {
			rec := do(h, http.MethodPost, "/estimate", `{"gender":`)

			Convey("Then bad_request is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["code"], ShouldEqual, service.KindBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			rec := do(h, http.MethodGet, "/estimate", "")

			Convey("Then 404 is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestCalculateEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		h, _ := newTestServer(t)

		Convey("When posting the legacy payload", func() {
			rec := do(h, http.MethodPost, "/calculate", `{"input_vector":[1,1,1],"gender":"male"}`)

			Convey("Then the legacy response shape is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body struct {
					EstimatedLifespan int      `json:"estimated_lifespan"`
					ExtraYears        string   `json:"extra_years"`
					NegativeFactors   []string `json:"negative_factors"`
					PositiveFactors   []string `json:"positive_factors"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.EstimatedLifespan, ShouldEqual, 74)
				So(body.ExtraYears, ShouldContainSubstring, "1.00 fewer years")
				So(body.NegativeFactors, ShouldResemble, []string{"Smoking: -7 years"})
				So(body.PositiveFactors, ShouldResemble, []string{"Exercise: +3 years"})
			})
		})

		Convey("When the vector is short", func() {
			rec := do(h, http.MethodPost, "/calculate", `{"input_vector":[1],"gender":"male"}`)

			Convey("Then an error field describes the mismatch", func() {
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(rec)["error"], ShouldContainSubstring, "must have 3 elements")
			})
		})
	})
}

func TestFactorsEndpoint(t *testing.T) {
	Convey("Given an API server", t, func() {
		h, _ := newTestServer(t)

		Convey("When listing factors", func() {
			rec := do(h, http.MethodGet, "/factors", "")

			Convey("Then they come back in table order", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body []struct {
					Index       int     `json:"index"`
					Name        string  `json:"name"`
					Question    string  `json:"question"`
					YearImpact  float64 `json:"year_impact"`
					AffectedSex string  `json:"affected_sex"`
				}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body, ShouldHaveLength, 3)
				So(body[0].Name, ShouldEqual, "Smoking")
				So(body[0].Question, ShouldEqual, "Do you smoke?")
				So(body[2].Index, ShouldEqual, 2)
				So(body[2].AffectedSex, ShouldEqual, "female")
			})
		})
	})
}

func TestStatsAndHealth(t *testing.T) {
	Convey("Given an API server", t, func() {
		h, _ := newTestServer(t)

		Convey("When requesting stats", func() {
			rec := do(h, http.MethodGet, "/stats", "")

			Convey("Then service statistics are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["started"], ShouldBeTrue)
				So(body["factors"], ShouldEqual, 3.0)
			})
		})

		Convey("When requesting health", func() {
			do(h, http.MethodGet, "/factors", "")
			rec := do(h, http.MethodGet, "/healthz", "")

			Convey("Then Prometheus metrics are exposed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "lifespan_")
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFromContext(r.Context())
		}))

		Convey("When the client supplies an id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			Convey("Then it is echoed and stored", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
				So(seen, ShouldEqual, "abc-123")
			})
		})

		Convey("When no id is supplied", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then a UUID is generated", func() {
				So(rec.Header().Get(api.RequestIDHeader), ShouldHaveLength, 36)
				So(seen, ShouldEqual, rec.Header().Get(api.RequestIDHeader))
			})
		})

		Convey("When the context has no id", func() {
			So(api.RequestIDFromContext(context.Background()), ShouldBeEmpty)
		})
	})
}

func TestWrapKind(t *testing.T) {
	Convey("Given a wrapped decode error", t, func() {
		cause := errors.New("unexpected EOF")
		err := api.WrapKind("api.post_estimate", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.post_estimate: bad request: unexpected EOF")
		})
	})
}
