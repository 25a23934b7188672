// Package transporttest содержит записывающий Transport для тестов.
package transporttest

import (
	"context"
	"net/http"
	"sync"
)

type Call struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Response struct {
	Status int
	Body   string
	Err    error
}

// Recorder запоминает каждый вызов и отвечает ответами из очереди по порядку.
// Когда очередь пуста, повторяет последний ответ.
type Recorder struct {
	mu        sync.Mutex
	calls     []Call
	responses []Response
}

func NewRecorder(responses ...Response) *Recorder {
	return &Recorder{responses: responses}
}

func (r *Recorder) Send(ctx context.Context, method, url string, header http.Header, body []byte) (int, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, Call{
		Method: method,
		URL:    url,
		Header: header.Clone(),
		Body:   append([]byte(nil), body...),
	})

	if len(r.responses) == 0 {
		return http.StatusOK, []byte(`{"result":{}}`), nil
	}
	resp := r.responses[0]
	if len(r.responses) > 1 {
		r.responses = r.responses[1:]
	}
	if resp.Err != nil {
		return 0, nil, resp.Err
	}
	return resp.Status, []byte(resp.Body), nil
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *Recorder) Last() Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}
	}
	return r.calls[len(r.calls)-1]
}
