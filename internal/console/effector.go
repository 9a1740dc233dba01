package console

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Effector renders side effects on a terminal. Celebrations and assistant
// messages print to the writer; the alert sound is the terminal bell.
type Effector struct {
	mu     sync.Mutex
	out    io.Writer
	logger *zap.Logger
}

// NewEffector creates a terminal effector writing to out
func NewEffector(out io.Writer, logger *zap.Logger) *Effector {
	return &Effector{
		out:    out,
		logger: logger,
	}
}

// Celebrate renders the payment celebration for an order
func (e *Effector) Celebrate(orderID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.out, "\n*** Confetti! Payment confirmed for order %s ***\n", orderID)
}

// PlayAlertSound rings the terminal bell
func (e *Effector) PlayAlertSound() {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprint(e.out, "\a")
	e.logger.Debug("alert sound played")
}

// PostAssistantMessage prints an assistant chat message
func (e *Effector) PostAssistantMessage(orderID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.out, "\n[assistant] %s\n", text)
	e.logger.Debug("assistant message posted", zap.String("order_id", orderID))
}

// SetAlertCount updates the attention counter shown in the banner line
func (e *Effector) SetAlertCount(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > 0 {
		fmt.Fprintf(e.out, "\n[banner] %d order(s) need attention\n", n)
	}
}
