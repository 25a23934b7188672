package models

type TaskID int64

type TaskState string

const (
	TaskSubmitted TaskState = "submitted"
	TaskPending   TaskState = "pending"
	TaskResolved  TaskState = "resolved"
)

// pendingItemStatuses -- статусы позиций, по которым Ozon ещё не закончил обработку.
var pendingItemStatuses = map[string]struct{}{
	"":           {},
	"pending":    {},
	"processing": {},
}

type TaskStatus struct {
	Total int        `json:"total"`
	Items []TaskItem `json:"items"`
}

type TaskItem struct {
	OfferID   string `json:"offer_id"`
	ProductID int64  `json:"product_id"`
	Status    string `json:"status"`
}

// State выводит состояние задачи из последнего ответа. Статусы позиций не меняются.
func (s *TaskStatus) State() TaskState {
	if s == nil || len(s.Items) == 0 || len(s.Items) < s.Total {
		return TaskPending
	}
	for _, item := range s.Items {
		if _, ok := pendingItemStatuses[item.Status]; ok {
			return TaskPending
		}
	}
	return TaskResolved
}

// Advance переводит состояние только вперёд: Submitted -> Pending -> Resolved.
func (st TaskState) Advance(next TaskState) TaskState {
	if st.rank() >= next.rank() {
		return st
	}
	return next
}

func (st TaskState) rank() int {
	switch st {
	case TaskSubmitted:
		return 1
	case TaskPending:
		return 2
	case TaskResolved:
		return 3
	}
	return 0
}
