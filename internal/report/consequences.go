// consequences.go
package report

import (
	"time"

	"go.uber.org/zap"
)

// LogConsequences satisfies Consequences without any reward hardware: every
// action is logged and pauses really elapse. Used for dry runs and replay
// sessions.
type LogConsequences struct {
	log   *zap.Logger
	sleep func(time.Duration)
}

// NewLogConsequences builds a logging consequence collaborator. sleep may be
// nil, defaulting to time.Sleep.
func NewLogConsequences(log *zap.Logger, sleep func(time.Duration)) *LogConsequences {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &LogConsequences{log: log, sleep: sleep}
}

func (c *LogConsequences) DeliverReward(volume time.Duration, line, repetitions int, gap time.Duration) error {
	c.log.Info("reward",
		zap.Duration("volume", volume),
		zap.Int("line", line),
		zap.Int("repetitions", repetitions),
		zap.Duration("gap", gap))
	for i := 1; i < repetitions; i++ {
		c.sleep(gap)
	}
	return nil
}

func (c *LogConsequences) PresentCue(cue int) error {
	c.log.Info("feedback cue", zap.Int("cue", cue))
	return nil
}

func (c *LogConsequences) Pause(d time.Duration) {
	c.log.Debug("inter-trial pause", zap.Duration("duration", d))
	c.sleep(d)
}
