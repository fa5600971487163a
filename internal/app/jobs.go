package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	// Optional background catalog refresh. The single-flight guard in the
	// catalog makes an overlap with a user-triggered reload harmless.
	if spec := a.appConfig.Feed.Refresh; spec != "" {
		_, err := a.sched.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(),
				time.Duration(a.appConfig.Feed.Timeout+5)*time.Second)
			defer cancel()
			if _, err := a.catalog.Load(ctx); err != nil {
				zap.S().Warnf("scheduled catalog refresh failed: %v", err)
			}
		})
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}
