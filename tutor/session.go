package tutor

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/studyware/tutor-gemini/gemini"
)

const (
	maxConcurrent  = 100
	sessionTimeout = 90 * time.Second
)

var sem = make(chan string, maxConcurrent)

func init() {
	for i := 0; i < cap(sem); i++ {
		sem <- fmt.Sprintf("tutor_%d", i)
	}
}

type Result struct {
	Err    error
	Answer string
}

// session is one in-flight generation call. It runs detached from the
// HTTP request and reports back on respCh; the handler decides whether
// anyone is still listening.
type session struct {
	gen     gemini.Generator
	modelID string
	req     *gemini.Request
	respCh  chan *Result
}

func goFire(s *session) {
	id := <-sem
	defer func() {
		sem <- id
	}()
	s.fire(id)
}

func (s *session) fire(id string) {
	defer func() {
		if obj := recover(); obj != nil {
			err := fmt.Errorf("recovered from panic, err: %+v", obj)
			log.Errorf("%s", err)
			s.respCh <- &Result{Err: err}
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	log.Debugf("%s: generating with model %s, %d contents", id, s.modelID, len(s.req.Contents))
	answer, err := s.gen.GenerateContent(ctx, s.modelID, s.req)
	if err != nil {
		log.Errorf("gemini err: %T \"%s\"", err, err.Error())
		s.respCh <- &Result{Err: err}
		return
	}
	log.Debugf("%s: answer: %s", id, answer)
	s.respCh <- &Result{Answer: answer}
}

// dispatch fires a capped session goroutine for the request.
func dispatch(gen gemini.Generator, modelID string, req *gemini.Request, ch chan *Result) {
	s := &session{
		gen:     gen,
		modelID: modelID,
		req:     req,
		respCh:  ch,
	}
	go goFire(s)
}
