// Package metrics defines hooks tasks use to report what they did.
package metrics

// Recorder receives task outcomes.
type Recorder interface {
	ButtonPressed(name string)
	LEDCommitted(err error)
	DisplayRedrawn(err error)
}

// Nop is a Recorder which records nothing.
type Nop struct{}

// ButtonPressed implements Recorder.
func (Nop) ButtonPressed(string) {}

// LEDCommitted implements Recorder.
func (Nop) LEDCommitted(error) {}

// DisplayRedrawn implements Recorder.
func (Nop) DisplayRedrawn(error) {}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}
