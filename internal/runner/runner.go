package runner

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"botnanny/internal/models"
	"botnanny/internal/modules/config"
	healthservice "botnanny/internal/modules/health/service"
	"botnanny/internal/modules/threecommas/service"
	"botnanny/internal/notify"
	"botnanny/pkg/logger"
)

// API — то, что раннеру нужно от 3Commas.
type API interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListBots(ctx context.Context, accountID int64) ([]models.Bot, error)
	ListDeals(ctx context.Context, botID int64) ([]models.Deal, error)
	GetDeal(ctx context.Context, dealID int64) (models.Deal, error)
	UpdateDealStopLoss(ctx context.Context, dealID int64, value decimal.Decimal) error
}

// Runner крутит основной цикл: выгрузка сделок по таргетам, оценка правил,
// подтяжка стопов, отчёт. Один цикл за раз, без перекрытий.
type Runner struct {
	api    API
	store  *SnapshotStore
	rep    *Reporter
	health *healthservice.State
	n      notify.Notifier

	targets         []models.Target
	rules           models.RuleSet
	interval        time.Duration
	fetchTimeout    time.Duration
	maxFailedCycles int

	failedCycles int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg *config.Config, api API, store *SnapshotStore, rep *Reporter, health *healthservice.State, n notify.Notifier) *Runner {
	return &Runner{
		api:             api,
		store:           store,
		rep:             rep,
		health:          health,
		n:               n,
		targets:         cfg.Targets(),
		rules:           cfg.RuleSet(),
		interval:        cfg.Interval(),
		fetchTimeout:    cfg.FetchTimeout(),
		maxFailedCycles: cfg.MaxFailedCycles,
	}
}

// Probe — стартовая проверка доступа. Битые ключи валят процесс сразу,
// любой другой сбой не мешает запуску: первый цикл попробует ещё раз.
func (r *Runner) Probe(ctx context.Context) error {
	pctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	accounts, err := r.api.ListAccounts(pctx)
	if err != nil {
		if service.IsUnauthorized(err) {
			return errors.Wrap(err, "3commas rejected credentials")
		}
		logger.Warn("startup probe failed, first cycle will retry: %v", err)
		return nil
	}
	r.health.SetReady(true)
	logger.Info("3Commas reachable, %d accounts visible", len(accounts))
	return nil
}

func (r *Runner) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel

	r.n.Sendf("🤖 BotNanny %s started, watching %d targets every %s",
		models.Version, len(r.targets), r.interval)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		// первый цикл сразу, не ждём тика
		r.cycle(context.WithoutCancel(ctx))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// WithoutCancel: остановка срабатывает на границе циклов,
				// начатый цикл дорабатывает под своими таймаутами
				r.cycle(context.WithoutCancel(ctx))
			}
		}
	}()
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
	logger.Info("runner stopped")
}
