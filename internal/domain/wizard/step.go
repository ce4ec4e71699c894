package wizard

// Step is one named stage of the report wizard
type Step string

const (
	StepBusiness   Step = "business"
	StepProduct    Step = "product"
	StepStock      Step = "stock"
	StepSupplier   Step = "supplier"
	StepReview     Step = "review"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

// ordinals drives the 1-based progress indicator. Processing and Success
// are rendered outside of it.
var ordinals = map[Step]int{
	StepBusiness: 1,
	StepProduct:  2,
	StepStock:    3,
	StepSupplier: 4,
	StepReview:   5,
}

var validSteps = map[Step]bool{
	StepBusiness:   true,
	StepProduct:    true,
	StepStock:      true,
	StepSupplier:   true,
	StepReview:     true,
	StepProcessing: true,
	StepSuccess:    true,
}

// ProgressSteps lists the steps shown in the progress indicator, in order
var ProgressSteps = []Step{StepBusiness, StepProduct, StepStock, StepSupplier, StepReview}

// Ordinal returns the 1-based position of the step in the progress
// indicator, or 0 when the step is not part of it
func (s Step) Ordinal() int {
	return ordinals[s]
}

// ShowsProgress reports whether the step is rendered with a progress indicator
func (s Step) ShowsProgress() bool {
	return ordinals[s] > 0
}

// IsInteractive returns false for steps that accept no user input
func (s Step) IsInteractive() bool {
	return s != StepProcessing
}

// String returns the string representation of the step
func (s Step) String() string {
	return string(s)
}

// IsValid returns true if the step is a known wizard step
func (s Step) IsValid() bool {
	return validSteps[s]
}
