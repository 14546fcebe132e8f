package weavetest

import "github.com/iov-one/valgov"

// Handler is a mock implementation of the valgov.Handler interface. It
// counts method calls and returns configured results.
type Handler struct {
	checkCall   int
	CheckResult valgov.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult valgov.DeliverResult
	DeliverErr    error
}

var _ valgov.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx valgov.Context, db valgov.KVStore, tx valgov.Tx) (*valgov.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
