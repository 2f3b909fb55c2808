package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/lifespan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type staticFactors []model.Factor

func (s staticFactors) Factors(context.Context) []model.Factor { return s }

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler over two factors", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux, staticFactors{
			{Name: "Smoking", YearImpact: -10, Question: "Do you smoke?"},
			{Name: "Owning a <dog>", YearImpact: 1},
		})

		Convey("When requesting /", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the questionnaire is rendered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				So(body, ShouldContainSubstring, "Do you smoke?")
				So(body, ShouldContainSubstring, `name="Smoking"`)
				So(body, ShouldContainSubstring, `<option value="sometimes">Sometimes</option>`)
			})

			Convey("And factor names are escaped", func() {
				So(w.Body.String(), ShouldNotContainSubstring, "<dog>")
			})

			Convey("And one option is offered per weight level", func() {
				So(w.Body.String(), ShouldNotContainSubstring, `value="regularly"`)
			})
		})

		Convey("When requesting an unknown path", func() {
			req := httptest.NewRequest(http.MethodGet, "/nope", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When posting to /", func() {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a nil mux", t, func() {
		Convey("Then Register panics", func() {
			So(func() { Register(context.Background(), nil, staticFactors{}) }, ShouldPanic)
		})
	})
}
