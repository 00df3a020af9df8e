package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"padelcourt/cmd/internal/integration/mail"
	"padelcourt/cmd/internal/metrics"

	"github.com/hibiken/asynq"
	"github.com/labstack/gommon/log"
)

// gommonLogger adapts the gommon logger to asynq.Logger.
type gommonLogger struct{}

func (gommonLogger) Debug(args ...any) { log.Debug(args...) }
func (gommonLogger) Info(args ...any)  { log.Info(args...) }
func (gommonLogger) Warn(args ...any)  { log.Warn(args...) }
func (gommonLogger) Error(args ...any) { log.Error(args...) }
func (gommonLogger) Fatal(args ...any) { log.Fatal(args...) }

type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewServer(redisURL string, sender mail.Sender) (*Server, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:  5,
		Logger:       gommonLogger{},
		ErrorHandler: asynq.ErrorHandlerFunc(handleError),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSendEmail, HandleSendEmail(sender))
	return &Server{srv: srv, mux: mux}, nil
}

// Start begins processing in background goroutines.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func HandleSendEmail(sender mail.Sender) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var msg mail.Message
		if err := json.Unmarshal(task.Payload(), &msg); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		if err := sender.Send(ctx, &msg); err != nil {
			return fmt.Errorf("send email to %s: %w", msg.To, err)
		}
		return nil
	}
}

func handleError(_ context.Context, task *asynq.Task, err error) {
	metrics.SideEffectFailures.WithLabelValues("email").Inc()
	log.Errorf("task %s failed: %v", task.Type(), err)
}
