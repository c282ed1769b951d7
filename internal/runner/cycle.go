package runner

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"

	"botnanny/internal/models"
	"botnanny/internal/modules/threecommas/service"
	"botnanny/pkg/logger"
)

func (r *Runner) cycle(ctx context.Context) {
	span := opentracing.GlobalTracer().StartSpan("nanny.cycle")
	defer span.Finish()
	ctx = opentracing.ContextWithSpan(ctx, span)

	started := time.Now()
	deals, failed := r.fetchAll(ctx)
	span.SetTag("deals", len(deals))
	span.SetTag("failedTargets", len(failed))

	for key, err := range failed {
		r.rep.TargetFailed(key, err)
	}

	ids := make([]int64, 0, len(deals))
	for id := range deals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	applied := 0
	active := make(map[int64]struct{}, len(deals))
	for _, id := range ids {
		deal := deals[id]
		res := r.processDeal(ctx, deal)
		if res.Kind == models.ActionApplied {
			applied++
		}
		if deal.IsActive() {
			active[id] = struct{}{}
		} else {
			r.store.Evict(id)
		}
		r.rep.Report(id, res)
	}

	// снапшоты пропавших сделок чистим только при полном обзоре:
	// сделки упавшего таргета отсутствуют не потому, что закрылись
	if len(failed) == 0 {
		r.store.PruneExcept(active)
	}

	r.trackFailures(len(deals) == 0 && len(failed) > 0)
	r.health.TouchCycle(time.Now(), len(ids))
	if len(deals) > 0 || len(failed) == 0 {
		r.health.SetReady(true)
	}

	logger.Info("cycle done in %s: deals=%d applied=%d failedTargets=%d",
		time.Since(started).Round(time.Millisecond), len(ids), applied, len(failed))
}

// fetchAll выгружает сделки всех таргетов параллельно и дедуплицирует по ID.
// Отказ одного таргета не трогает остальные: он просто попадает в failed.
func (r *Runner) fetchAll(ctx context.Context) (map[int64]models.Deal, map[string]error) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		deals  = make(map[int64]models.Deal)
		failed = make(map[string]error)
	)
	add := func(ds []models.Deal) {
		mu.Lock()
		for _, d := range ds {
			deals[d.ID] = d
		}
		mu.Unlock()
	}
	fail := func(t models.Target, err error) {
		mu.Lock()
		failed[t.Key()] = err
		mu.Unlock()
	}

	for _, t := range r.targets {
		t := t
		wg.Add(1)
		go func() {
			defer wg.Done()
			tspan, sctx := opentracing.StartSpanFromContext(ctx, "nanny.fetch_target")
			tspan.SetTag("target", t.Key())
			defer tspan.Finish()

			tctx, cancel := context.WithTimeout(sctx, r.fetchTimeout)
			defer cancel()

			switch t.Kind {
			case models.TargetAccount:
				bots, err := r.api.ListBots(tctx, t.ID)
				if err != nil {
					fail(t, err)
					return
				}
				for _, b := range bots {
					ds, err := r.api.ListDeals(tctx, b.ID)
					if err != nil {
						fail(models.Target{Kind: models.TargetBot, ID: b.ID}, err)
						continue
					}
					add(ds)
				}
			case models.TargetBot:
				ds, err := r.api.ListDeals(tctx, t.ID)
				if err != nil {
					fail(t, err)
					return
				}
				add(ds)
			case models.TargetDeal:
				d, err := r.api.GetDeal(tctx, t.ID)
				if err != nil {
					if service.IsNotFound(err) {
						// сделка закрыта и ушла из выдачи, это не отказ
						r.store.Evict(t.ID)
						return
					}
					fail(t, err)
					return
				}
				add([]models.Deal{d})
			}
		}()
	}
	wg.Wait()
	return deals, failed
}

func (r *Runner) processDeal(ctx context.Context, deal models.Deal) models.ActionResult {
	snap, hasSnap := r.store.Get(deal.ID)
	dec := Evaluate(deal, snap, hasSnap, r.rules)
	if !dec.Apply {
		return models.Skipped(dec.Reason)
	}

	uctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()
	if err := r.api.UpdateDealStopLoss(uctx, deal.ID, dec.NewStopLoss); err != nil {
		if service.IsNotFound(err) {
			// закрылась между выгрузкой и применением
			r.store.Evict(deal.ID)
			return models.Skipped("deal gone")
		}
		// снапшот не трогаем, следующий цикл попробует снова
		return models.Failed(err)
	}

	r.store.Commit(deal.ID, models.Snapshot{
		PnlPercent:   deal.PnlPercent,
		StopLoss:     dec.NewStopLoss,
		LastActionAt: time.Now(),
	})
	return models.Applied(dec.NewStopLoss)
}

func (r *Runner) trackFailures(allFailed bool) {
	if !allFailed {
		r.failedCycles = 0
		return
	}
	r.failedCycles++
	if r.maxFailedCycles > 0 && r.failedCycles == r.maxFailedCycles {
		r.rep.Escalate(r.failedCycles)
	}
}
