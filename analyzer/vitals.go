package analyzer

// vitalsExtractor grades the supplied Core Web Vitals against the published
// thresholds. Pages without a browser trace get no vitals section at all.
type vitalsExtractor struct{}

func (vitalsExtractor) Name() string { return "core_web_vitals" }

// Threshold pairs (good, needs-improvement). Values above the second bound
// grade as poor.
const (
	lcpGood = 2.5 // seconds
	lcpNI   = 4.0

	clsGood = 0.1
	clsNI   = 0.25

	inpGood = 200.0 // milliseconds
	inpNI   = 500.0

	fidGood = 100.0 // milliseconds
	fidNI   = 300.0

	ttfbGood = 0.8 // seconds
	ttfbNI   = 1.8
)

func (vitalsExtractor) Extract(p *Page, s *Signals) error {
	if p.Trace == nil {
		return nil
	}

	v := &VitalsSignals{LCPElement: p.Trace.LCPElement}

	if p.Trace.LCP != nil {
		v.LCP = copyFloat(p.Trace.LCP)
		v.LCPGrade = grade(*v.LCP, lcpGood, lcpNI)
	}
	if p.Trace.CLS != nil {
		v.CLS = copyFloat(p.Trace.CLS)
		v.CLSGrade = grade(*v.CLS, clsGood, clsNI)
	}
	if p.Trace.INP != nil {
		v.INP = copyFloat(p.Trace.INP)
		v.INPGrade = grade(*v.INP, inpGood, inpNI)
	}
	if p.Trace.FID != nil {
		v.FID = copyFloat(p.Trace.FID)
		v.FIDGrade = grade(*v.FID, fidGood, fidNI)
	}
	if p.Trace.TTFB != nil {
		v.TTFB = copyFloat(p.Trace.TTFB)
		v.TTFBGrade = grade(*v.TTFB, ttfbGood, ttfbNI)
	}

	s.Vitals = v
	return nil
}

func grade(value, good, needsImprovement float64) string {
	switch {
	case value <= good:
		return GradeGood
	case value <= needsImprovement:
		return GradeNeedsImprovement
	default:
		return GradePoor
	}
}

func copyFloat(v *float64) *float64 {
	out := *v
	return &out
}
