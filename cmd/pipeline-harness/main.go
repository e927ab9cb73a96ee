// pipeline-harness loads a fixture snapshot, runs the full decision pipeline
// over it and logs the results. It exercises every layer against real Redis
// and Kafka when configured, falling back to in-memory equivalents so the
// binary works on a bare laptop.
package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/md-rashed-zaman/pipetrack/activity"
	"github.com/md-rashed-zaman/pipetrack/cycle"
	"github.com/md-rashed-zaman/pipetrack/dispatch"
	"github.com/md-rashed-zaman/pipetrack/gamification"
	"github.com/md-rashed-zaman/pipetrack/libs/config"
	"github.com/md-rashed-zaman/pipetrack/libs/kvstore"
	"github.com/md-rashed-zaman/pipetrack/libs/runtime"
	"github.com/md-rashed-zaman/pipetrack/model"
	"github.com/md-rashed-zaman/pipetrack/stage"
	"github.com/md-rashed-zaman/pipetrack/stats"
	"github.com/md-rashed-zaman/pipetrack/urgency"
)

// fixture is the snapshot format consumed by the harness.
type fixture struct {
	Appointments []model.Appointment
	Cycles       []model.PayCycle
	Incentives   []model.Incentive
	Rules        []model.IncentiveRule
	Users        []model.User
}

type snapshot struct {
	byID map[string]model.Appointment
}

func (s snapshot) Appointment(id string) (model.Appointment, bool) {
	a, ok := s.byID[id]
	return a, ok
}

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "pipeline-harness")
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	fixturePath := config.String("FIXTURE_PATH", "testdata/pipeline.json")
	fx, err := loadFixture(fixturePath)
	if err != nil {
		logger.Error("fixture load failed", "path", fixturePath, "err", err)
		os.Exit(1)
	}
	logger.Info("fixture loaded",
		"appointments", len(fx.Appointments),
		"cycles", len(fx.Cycles),
		"users", len(fx.Users))

	// Flag store: Redis when configured, in-memory otherwise.
	var flags kvstore.Store = kvstore.NewMemory()
	var checks []runtime.ReadyCheck
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()
		flags = kvstore.NewRedis(rdb)
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: kvstore.ReadyCheck(rdb)})
	}

	// Intent sink: Kafka when configured, collected in memory otherwise.
	var sink dispatch.Sink
	memSink := dispatch.NewMemorySink()
	sink = memSink
	if brokers := config.String("KAFKA_BROKERS", ""); brokers != "" {
		topic := config.String("KAFKA_TOPIC", "pipeline.intents.v1")
		ks := dispatch.NewKafkaSink(brokers, topic)
		defer ks.Close()
		sink = ks
		memSink = nil
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: dispatch.ReadyCheck(brokers)})
	}

	if err := runtime.Probe(ctx, checks...); err != nil {
		logger.Error("dependency probe failed", "err", err)
		os.Exit(1)
	}

	rates, err := ratesFromEnv()
	if err != nil {
		logger.Error("bad rate configuration", "err", err)
		os.Exit(1)
	}

	now := time.Now()
	viewer := pickViewer(fx.Users)
	src := snapshot{byID: indexByID(fx.Appointments)}

	// Readiness sweep.
	due := 0
	for _, a := range fx.Appointments {
		if r := urgency.Evaluate(a.Stage, a.ScheduledAt, now); r != nil {
			if r.Band == urgency.BandReady || r.Band == urgency.BandApproaching {
				due++
			}
		}
	}
	logger.Info("readiness sweep", "due", due, "total", len(fx.Appointments))

	// Cycle menu and current-cycle grouping.
	menu := cycle.Menu(fx.Cycles, now)
	logger.Info("cycle menu", "options", len(menu))
	if active, ok := cycle.Active(fx.Cycles, now); ok {
		inCycle := cycle.FilterByCycle(fx.Appointments, fx.Cycles, active.ID)
		buckets := cycle.GroupByDay(inCycle, cycle.Descending, time.Local)
		logger.Info("active cycle",
			"cycle_id", active.ID,
			"appointments", len(inCycle),
			"days", len(buckets),
			"team_total", stats.TeamCycleTotal(active, inCycle, fx.Incentives).StringFixed(2))
	}

	// Earnings for the viewer.
	earnings := stats.EarningWindows(fx.Cycles, fx.Appointments, fx.Incentives, viewer, now)
	logger.Info("earnings",
		"viewer", viewer.Name,
		"lifetime", earnings.Lifetime.StringFixed(2),
		"history_windows", len(earnings.History),
		"has_current", earnings.Current != nil)

	// Gamification check against the active cycle.
	if active, ok := cycle.Active(fx.Cycles, now); ok && earnings.Current != nil {
		trig := gamification.NewTrigger(flags)
		ev, err := trig.Observe(ctx, active.ID, earnings.Current.OnboardedCount, viewer.Role == model.RoleAdmin)
		if err != nil {
			logger.Error("milestone check failed", "err", err)
		} else if ev != nil {
			logger.Info("milestone reached", "level", ev.Level, "cycle_id", ev.CycleID)
			if err := trig.Dismiss(ctx, ev); err != nil {
				logger.Error("milestone dismiss failed", "err", err)
			}
		}
	}

	// Dashboard rollup.
	dash := stats.Summarize(fx.Appointments)
	logger.Info("dashboard",
		"onboarded", dash.Onboarded,
		"pending", dash.Pending,
		"conversion", dash.ConversionRate)

	// Drive one mutation end to end when asked to.
	if moveID := config.String("DEMO_MOVE_ID", ""); moveID != "" {
		rec := activity.NewRecorder(viewer.ID, viewer.Name, func(e activity.Entry) {
			logger.Info("audit", "action", e.Action, "details", e.Details)
		})
		d := dispatch.New(src, stage.NewMachine(src, rates), sink, rec, logger)
		if active, ok := cycle.Active(fx.Cycles, now); ok {
			d.UseIncentives(fx.Rules, active.ID)
		}
		next, err := d.RequestStageChange(ctx, moveID, model.StageOnboarded,
			stage.MoveRequest{SelfOnboard: true, AgentName: viewer.Name})
		if err != nil {
			logger.Error("stage change failed", "appointment_id", moveID, "err", err)
		} else {
			logger.Info("stage change dispatched",
				"appointment_id", moveID,
				"stage", string(next.Stage),
				"earned", model.Cents(next.EarnedCents).StringFixed(2))
		}
	}

	if memSink != nil {
		logger.Info("intents collected in memory", "count", len(memSink.Intents()))
	}
	logger.Info("harness done")
}

func loadFixture(path string) (fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, err
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return fixture{}, err
	}
	return fx, nil
}

func ratesFromEnv() (stage.Rates, error) {
	standard, err := config.Cents("RATE_STANDARD_CENTS", stage.DefaultRates.StandardCents)
	if err != nil {
		return stage.Rates{}, err
	}
	self, err := config.Cents("RATE_SELF_CENTS", stage.DefaultRates.SelfCents)
	if err != nil {
		return stage.Rates{}, err
	}
	activation, err := config.Cents("RATE_ACTIVATION_CENTS", stage.DefaultRates.ActivationCents)
	if err != nil {
		return stage.Rates{}, err
	}
	return stage.Rates{StandardCents: standard, SelfCents: self, ActivationCents: activation}, nil
}

func indexByID(appts []model.Appointment) map[string]model.Appointment {
	byID := make(map[string]model.Appointment, len(appts))
	for _, a := range appts {
		byID[a.ID] = a
	}
	return byID
}

// pickViewer prefers the user named by VIEWER_ID, then the first agent, then
// a synthetic one so the harness never produces an empty report.
func pickViewer(users []model.User) model.User {
	if id := config.String("VIEWER_ID", ""); id != "" {
		for _, u := range users {
			if u.ID == id {
				return u
			}
		}
	}
	for _, u := range users {
		if u.Role == model.RoleAgent {
			return u
		}
	}
	return model.User{ID: "harness", Name: "Harness", Role: model.RoleAgent}
}
