package postal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/postal/pkg/logger"
	"github.com/dmitrymomot/postal/pkg/mailer"
	"github.com/dmitrymomot/postal/pkg/mailer/console"
	"github.com/dmitrymomot/postal/pkg/mailer/mailgun"
	"github.com/dmitrymomot/postal/pkg/mailer/resend"
	"github.com/dmitrymomot/postal/pkg/queue"
	"github.com/dmitrymomot/postal/pkg/queue/cloudtasks"
	"github.com/dmitrymomot/postal/pkg/queue/local"
	"github.com/dmitrymomot/postal/pkg/templates"
)

// TaskSendEmail is the task name under which deferred sends are queued.
const TaskSendEmail = "postal:send_email"

// TemplateStore is the storage surface the service needs for templates.
// Satisfied by templates.Store and templates.CachedStore.
type TemplateStore interface {
	GetByName(ctx context.Context, name string) (*templates.Template, error)
	Upsert(ctx context.Context, tpl *templates.Template) (*templates.Template, error)
}

// Service wires templates, rendering, delivery and the task backend into
// a single embeddable unit. The host application constructs one Service,
// mounts Handler() into its router, and calls SendEmail or EnqueueEmail.
type Service struct {
	cfg       Config
	log       *slog.Logger
	loc       *time.Location
	templates TemplateStore
	mailer    *mailer.Mailer
	backend   *queue.Backend
	consumer  *local.Consumer
	closers   []io.Closer
}

// New builds a Service from the given config and connection pool.
// The pool may be nil only when both WithTemplateStore and
// WithRecordStore are provided.
func New(ctx context.Context, cfg Config, pool *pgxpool.Pool, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &serviceOptions{log: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}

	if pool == nil && (o.templateStore == nil || o.recordStore == nil) {
		return nil, ErrPoolRequired
	}

	tplStore := o.templateStore
	if tplStore == nil {
		tplStore = templates.NewCachedStore(templates.NewStore(pool), cfg.TemplateCacheTTL)
	}
	recStore := o.recordStore
	if recStore == nil {
		recStore = queue.NewStore(pool)
	}

	sender := o.sender
	if sender == nil {
		var err error
		if sender, err = newSender(cfg); err != nil {
			return nil, err
		}
	}

	var rendererOpts []mailer.RendererOption
	if o.markdown {
		rendererOpts = append(rendererOpts, mailer.WithMarkdownFallback())
	}
	m := mailer.New(tplStore, sender, mailer.NewRenderer(rendererOpts...), mailer.WithLogger(o.log))

	s := &Service{
		cfg:       cfg,
		log:       o.log,
		loc:       cfg.location(),
		templates: tplStore,
		mailer:    m,
	}

	dispatcher := o.dispatcher
	var inline *local.Inline
	var broker local.Broker
	if dispatcher == nil {
		var err error
		if dispatcher, inline, broker, err = s.newDispatcher(ctx, cfg); err != nil {
			return nil, err
		}
	}

	backend, err := queue.New(recStore, dispatcher, cfg.SecretKey, queue.WithLogger(o.log))
	if err != nil {
		s.close()
		return nil, err
	}
	s.backend = backend
	if inline != nil {
		inline.Bind(backend)
	}
	if broker != nil {
		consumer, err := local.NewConsumer(broker, backend, local.WithLogger(o.log))
		if err != nil {
			s.close()
			return nil, err
		}
		s.consumer = consumer
	}

	backend.Register(queue.NewTask(TaskSendEmail, s.runSendEmail))

	return s, nil
}

// newSender selects the delivery provider from Config.Provider.
// Validate has already rejected unknown values.
func newSender(cfg Config) (mailer.Sender, error) {
	switch cfg.Provider {
	case ProviderMailgun:
		return mailgun.New(cfg.Mailgun)
	case ProviderResend:
		return resend.New(cfg.Resend)
	default:
		return console.New(), nil
	}
}

func (s *Service) newDispatcher(ctx context.Context, cfg Config) (queue.Dispatcher, *local.Inline, local.Broker, error) {
	if cfg.TaskSystem == TaskSystemCloudTasks {
		ctCfg := cfg.CloudTasks
		if ctCfg.CallbackURL == "" {
			ctCfg.CallbackURL = cfg.CallbackURL()
		}
		ct, err := cloudtasks.New(ctx, ctCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		s.closers = append(s.closers, ct)
		return ct, nil, nil, nil
	}

	switch cfg.Broker {
	case BrokerMemory:
		mem := local.NewMemory(0)
		s.closers = append(s.closers, mem)
		dispatcher, err := local.NewDispatcher(mem)
		if err != nil {
			return nil, nil, nil, err
		}
		return dispatcher, nil, mem, nil
	case BrokerRedis:
		rds, err := local.Open(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		s.closers = append(s.closers, rds)
		dispatcher, err := local.NewDispatcher(rds)
		if err != nil {
			return nil, nil, nil, err
		}
		return dispatcher, nil, rds, nil
	default:
		inline := local.NewInline()
		return inline, inline, nil, nil
	}
}

type emailTaskPayload struct {
	Template string         `json:"template"`
	To       string         `json:"to"`
	From     string         `json:"from,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// runSendEmail is the handler behind the TaskSendEmail task.
func (s *Service) runSendEmail(ctx context.Context, p emailTaskPayload) (string, error) {
	err := s.mailer.Send(ctx, mailer.SendParams{
		To:       p.To,
		Template: p.Template,
		From:     p.From,
		Data:     p.Data,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("sent %q to %s at %s", p.Template, p.To, time.Now().In(s.loc).Format(time.RFC3339)), nil
}

// SendEmail renders the named template and delivers it immediately.
func (s *Service) SendEmail(ctx context.Context, template, to string, data map[string]any) error {
	return s.mailer.Send(ctx, mailer.SendParams{
		To:       to,
		Template: template,
		From:     s.cfg.DefaultFrom,
		Data:     data,
	})
}

// EnqueueEmail defers the send to the task backend. The returned receipt
// carries the durable task id and the dispatcher's id for the delivery.
func (s *Service) EnqueueEmail(ctx context.Context, template, to string, data map[string]any) (*queue.Receipt, error) {
	return s.backend.Queue(ctx, TaskSendEmail, emailTaskPayload{
		Template: template,
		To:       to,
		From:     s.cfg.DefaultFrom,
		Data:     data,
	})
}

// LoadTemplates syncs markdown template files from the given filesystem
// into the store. Intended for embedded seed templates at startup.
func (s *Service) LoadTemplates(ctx context.Context, fsys fs.FS) error {
	return templates.Load(ctx, s.templates, fsys)
}

// Backend exposes the task backend so hosts can register their own tasks
// alongside email delivery.
func (s *Service) Backend() *queue.Backend { return s.backend }

// Mailer exposes the underlying mailer for raw sends.
func (s *Service) Mailer() *mailer.Mailer { return s.mailer }

// Templates exposes the template store for CRUD from the host app.
func (s *Service) Templates() TemplateStore { return s.templates }

// Start launches the background consumer when the local task system runs
// with a memory or redis broker. It is a no-op otherwise.
func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	return s.consumer.Start(ctx)
}

// Stop halts the background consumer and waits for the in-flight task.
func (s *Service) Stop(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	if err := s.consumer.Stop(ctx); err != nil && !errors.Is(err, local.ErrNotStarted) {
		return err
	}
	return nil
}

// Close releases brokers and dispatcher clients. The pgx pool is owned
// by the host and is not closed here.
func (s *Service) Close(ctx context.Context) error {
	if err := s.Stop(ctx); err != nil {
		return err
	}
	return s.close()
}

func (s *Service) close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
