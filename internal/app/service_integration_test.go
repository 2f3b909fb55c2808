package service_test

import (
	"context"
	"sync"
	"testing"

	service "github.com/okian/lifespan/internal/app"
	"github.com/okian/lifespan/internal/domain/factor"
	"github.com/okian/lifespan/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_ConcurrentEstimates(t *testing.T) {
	Convey("Given a service over the embedded table", t, func() {
		ctx := context.Background()
		table, err := factor.Default()
		So(err, ShouldBeNil)

		svc := service.New(service.WithTable(table))
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		answers := make([]string, table.Len())
		for i := range answers {
			switch i % 4 {
			case 0:
				answers[i] = "yes"
			case 1:
				answers[i] = "rarely"
			case 2:
				answers[i] = "Sometimes I guess"
			default:
				answers[i] = "never"
			}
		}

		Convey("When many callers estimate the same input concurrently", func() {
			const callers = 32
			reports := make([]report.Report, callers)
			errs := make([]error, callers)

			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					gender := "male"
					if i%2 == 1 {
						gender = "female"
					}
					reports[i], errs[i] = svc.Estimate(ctx, service.Request{Gender: gender, Answers: answers})
				}(i)
			}
			wg.Wait()

			Convey("Then every result for the same gender is identical", func() {
				for i := 0; i < callers; i++ {
					So(errs[i], ShouldBeNil)
					So(reports[i], ShouldResemble, reports[i%2])
				}
			})

			Convey("And the table is unchanged", func() {
				So(svc.Factors(ctx), ShouldResemble, table.Factors())
				So(svc.GetStats()["estimates"], ShouldEqual, int64(callers))
			})
		})

		Convey("When the female-only factor is the only positive answer", func() {
			i, ok := table.Index("Being a woman")
			So(ok, ShouldBeTrue)
			weights := make([]float64, table.Len())
			weights[i] = 1

			male, errM := svc.Estimate(ctx, service.Request{Gender: "male", Weights: weights})
			female, errF := svc.Estimate(ctx, service.Request{Gender: "female", Weights: weights})

			Convey("Then only the female caller is affected", func() {
				So(errM, ShouldBeNil)
				So(errF, ShouldBeNil)
				So(male.ChangeInAge, ShouldEqual, 0.0)
				So(female.ChangeInAge, ShouldEqual, table.At(i).YearImpact/4)
			})
		})
	})
}
