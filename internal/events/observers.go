package events

import "log"

// LoggingObserver logs events for debugging.
type LoggingObserver struct {
	name    string
	verbose bool
}

// NewLoggingObserver creates an observer that logs every event.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{
		name:    "LoggingObserver",
		verbose: verbose,
	}
}

// OnEvent logs the event.
func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[%s] event %s: %+v", o.name, event.Type, event.Data)
	} else {
		log.Printf("[%s] event %s", o.name, event.Type)
	}
	return nil
}

// GetName returns the observer's name.
func (o *LoggingObserver) GetName() string {
	return o.name
}

// ShouldHandle returns true for all events.
func (o *LoggingObserver) ShouldHandle(string) bool {
	return true
}

var _ Observer = (*LoggingObserver)(nil)
