package reconcile

// Notice is a user-visible message about a failed cart operation.
type Notice struct {
	Op        string
	ProductID string
	Message   string
	Err       error
}

// Notifier shows transient notifications to the shopper.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}
