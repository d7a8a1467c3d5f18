package kinetics

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactsim/internal/analytic"
	"github.com/san-kum/reactsim/internal/odesys"
	"github.com/san-kum/reactsim/internal/reaction"
)

var _ = Describe("unary irreversible CSTR", func() {
	var (
		sys  *odesys.System
		feed *odesys.FeedParams
	)

	BeforeEach(func() {
		rs, err := reaction.ParseSystem([]string{"A -> B; 'k'"})
		Expect(err).NotTo(HaveOccurred())
		sys, feed, err = odesys.Build(rs, odesys.WithCSTR())
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("numeric trajectory agrees with the closed form",
		func(p analytic.CSTRParams) {
			fcA, _ := feed.ConcentrationParam("A")
			fcB, _ := feed.ConcentrationParam("B")
			params := map[string]float64{"k": p.K, feed.Ratio: p.FeedRatio, fcA: p.FeedA, fcB: p.FeedB}
			init := map[string]float64{"A": p.InitA, "B": p.InitB}

			res, err := Integrate(context.Background(), sys, init, params, 10, DefaultOptions())
			Expect(err).NotTo(HaveOccurred())

			exact, err := analytic.UnaryIrrevCSTR(res.Times, p)
			Expect(err).NotTo(HaveOccurred())

			for i, pt := range exact {
				Expect(res.States[i][0]).To(BeNumerically("~", pt.A, 1e-7), "A at t=%v", pt.T)
				Expect(res.States[i][1]).To(BeNumerically("~", pt.B, 1e-7), "B at t=%v", pt.T)
			}
		},
		Entry("worked example", analytic.CSTRParams{K: 0.8, FeedRatio: 0.3, FeedA: 0.7, FeedB: 0.1, InitA: 0.15, InitB: 0.1}),
		Entry("closed vessel", analytic.CSTRParams{K: 0.8, FeedRatio: 0, FeedA: 0.7, FeedB: 0.1, InitA: 0.15, InitB: 0.1}),
		Entry("flow only", analytic.CSTRParams{K: 0, FeedRatio: 0.5, FeedA: 1.0, FeedB: 0.2, InitA: 0, InitB: 0}),
		Entry("nothing happens", analytic.CSTRParams{K: 0, FeedRatio: 0, FeedA: 1.0, FeedB: 1.0, InitA: 0.4, InitB: 0.6}),
		Entry("fast reaction", analytic.CSTRParams{K: 25, FeedRatio: 0.1, FeedA: 2.0, FeedB: 0, InitA: 1.0, InitB: 0}),
		Entry("flow dominates", analytic.CSTRParams{K: 0.05, FeedRatio: 4, FeedA: 0.3, FeedB: 0.9, InitA: 2.0, InitB: 1.5}),
	)

	It("reaches the analytic steady state", func() {
		p := analytic.CSTRParams{K: 0.8, FeedRatio: 0.3, FeedA: 0.7, FeedB: 0.1, InitA: 0.15, InitB: 0.1}
		res, err := Integrate(context.Background(), sys,
			map[string]float64{"A": p.InitA, "B": p.InitB},
			map[string]float64{"k": p.K, "fr": p.FeedRatio, "fc_A": p.FeedA, "fc_B": p.FeedB},
			150, DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		ss, err := analytic.UnaryIrrevCSTRSteadyState(p)
		Expect(err).NotTo(HaveOccurred())
		final := res.Final()
		Expect(final[0]).To(BeNumerically("~", ss.A, 1e-8))
		Expect(final[1]).To(BeNumerically("~", ss.B, 1e-8))
	})
})
