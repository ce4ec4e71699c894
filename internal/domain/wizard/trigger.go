package wizard

// Trigger represents a user action or async settlement that can move the wizard
type Trigger string

const (
	TriggerNext    Trigger = "NEXT"
	TriggerBack    Trigger = "BACK"
	TriggerSkip    Trigger = "SKIP"
	TriggerSubmit  Trigger = "SUBMIT"
	TriggerSucceed Trigger = "SUCCEED"
	TriggerFail    Trigger = "FAIL"
	TriggerRestart Trigger = "RESTART"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
