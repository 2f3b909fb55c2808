package response_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/internal/domain/model"
	"github.com/okian/lifespan/internal/domain/response"
	. "github.com/smartystreets/goconvey/convey"
)

func testTable() *factor.Table {
	t, err := factor.New("test", []model.Factor{
		{Name: "Smoking", YearImpact: -7},
		{Name: "Exercise", YearImpact: 3},
	})
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseAnswer(t *testing.T) {
	Convey("Given free-form answers", t, func() {
		Convey("When each recognized token is parsed", func() {
			cases := map[string]float64{
				"never": 0, "no": 0,
				"rarely": 0.2514, "slightly": 0.2514,
				"sometimes": 0.7486, "moderately": 0.7486,
				"frequently": 1, "regularly": 1, "yes": 1,
			}

			Convey("Then it maps to its weight", func() {
				for raw, want := range cases {
					a, err := response.ParseAnswer(raw)
					So(err, ShouldBeNil)
					So(a.Weight(), ShouldEqual, want)
				}
			})
		})

		Convey("When only the first token matters", func() {
			a, err := response.ParseAnswer("  YES sometimes")
			So(err, ShouldBeNil)
			So(a, ShouldEqual, response.Yes)
		})

		Convey("When the token is unrecognized", func() {
			_, err := response.ParseAnswer("maybe")

			Convey("Then the error names the raw value", func() {
				var ue *response.UnrecognizedResponseError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Raw, ShouldEqual, "maybe")
				So(errors.Is(err, response.ErrUnrecognizedResponse), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "maybe")
			})
		})

		Convey("When the answer is blank", func() {
			_, err := response.ParseAnswer("   ")
			So(errors.Is(err, response.ErrUnrecognizedResponse), ShouldBeTrue)
		})

		Convey("Then every listed answer has a weight in [0,1]", func() {
			for _, a := range response.Answers() {
				So(a.Weight(), ShouldBeBetweenOrEqual, 0.0, 1.0)
			}
		})
	})
}

func TestFromNamed(t *testing.T) {
	Convey("Given a two-factor table", t, func() {
		table := testTable()

		Convey("When answers are keyed by name", func() {
			v, err := response.FromNamed(table, map[string]string{"exercise": "never", "Smoking": "yes"})

			Convey("Then the vector follows table order", func() {
				So(err, ShouldBeNil)
				So(v, ShouldResemble, model.Vector{1, 0})
			})
		})

		Convey("When answers are keyed by position", func() {
			v, err := response.FromNamed(table, map[string]string{"0": "rarely", "1": "Sometimes"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, model.Vector{0.2514, 0.7486})
		})

		Convey("When too few answers are supplied", func() {
			_, err := response.FromNamed(table, map[string]string{"Smoking": "yes"})

			Convey("Then it is a VectorLengthError", func() {
				var le *response.VectorLengthError
				So(errors.As(err, &le), ShouldBeTrue)
				So(le.Got, ShouldEqual, 1)
				So(le.Want, ShouldEqual, 2)
			})
		})

		Convey("When a key names no factor", func() {
			_, err := response.FromNamed(table, map[string]string{"Smoking": "yes", "Juggling": "no"})
			So(errors.Is(err, response.ErrUnknownFactor), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Juggling")
		})

		Convey("When a factor is named twice", func() {
			_, err := response.FromNamed(table, map[string]string{"Smoking": "yes", "0": "no"})
			So(errors.Is(err, response.ErrVectorLength), ShouldBeTrue)
		})

		Convey("When an answer is unrecognized", func() {
			_, err := response.FromNamed(table, map[string]string{"Smoking": "maybe", "Exercise": "no"})

			Convey("Then the error names the factor and the raw value", func() {
				var ue *response.UnrecognizedResponseError
				So(errors.As(err, &ue), ShouldBeTrue)
				So(ue.Factor, ShouldEqual, "Smoking")
				So(ue.Raw, ShouldEqual, "maybe")
			})
		})
	})
}

func TestFromOrdered(t *testing.T) {
	Convey("Given a two-factor table", t, func() {
		table := testTable()

		Convey("When answers are positional", func() {
			v, err := response.FromOrdered(table, []string{"no", "regularly"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, model.Vector{0, 1})
		})

		Convey("When the count is wrong", func() {
			_, err := response.FromOrdered(table, []string{"no", "no", "no"})
			So(errors.Is(err, response.ErrVectorLength), ShouldBeTrue)
		})

		Convey("When normalizing twice", func() {
			a, _ := response.FromOrdered(table, []string{"slightly", "yes"})
			b, _ := response.FromOrdered(table, []string{"slightly", "yes"})
			So(a, ShouldResemble, b)
		})
	})
}

func TestFromWeights(t *testing.T) {
	Convey("Given numeric weights", t, func() {
		table := testTable()

		Convey("When they are within range", func() {
			v, err := response.FromWeights(table, []float64{1, 0.5})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, model.Vector{1, 0.5})
		})

		Convey("When one is out of range", func() {
			_, err := response.FromWeights(table, []float64{1.5, 0})
			var we *response.WeightRangeError
			So(errors.As(err, &we), ShouldBeTrue)
			So(we.Index, ShouldEqual, 0)
		})

		Convey("When one is NaN", func() {
			_, err := response.FromWeights(table, []float64{0, math.NaN()})
			So(errors.Is(err, response.ErrWeightRange), ShouldBeTrue)
		})

		Convey("When the count is wrong", func() {
			_, err := response.FromWeights(table, []float64{1})
			So(errors.Is(err, response.ErrVectorLength), ShouldBeTrue)
		})
	})
}
