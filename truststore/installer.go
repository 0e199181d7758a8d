package truststore

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

type Status int

const (
	StatusInstalled Status = iota + 1
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		panic("impossible")
	}
}

// Outcome is the result of installing into one trust database. Location is
// empty for targets with a single database.
type Outcome struct {
	Target   string
	Location string
	Status   Status
	Reason   error
}

func Installed(target, location string) Outcome {
	return Outcome{Target: target, Location: location, Status: StatusInstalled}
}

func Skipped(target, location string, reason error) Outcome {
	return Outcome{Target: target, Location: location, Status: StatusSkipped, Reason: reason}
}

func Failed(target, location string, reason error) Outcome {
	return Outcome{Target: target, Location: location, Status: StatusFailed, Reason: reason}
}

type Report struct {
	Outcomes []Outcome
}

func (r *Report) Installed() []Outcome { return r.filter(StatusInstalled) }
func (r *Report) Skipped() []Outcome   { return r.filter(StatusSkipped) }
func (r *Report) Failed() []Outcome    { return r.filter(StatusFailed) }

func (r *Report) filter(status Status) []Outcome {
	var outcomes []Outcome
	for _, o := range r.Outcomes {
		if o.Status == status {
			outcomes = append(outcomes, o)
		}
	}
	return outcomes
}

type Installer struct {
	Targets []Target

	Logger logrus.FieldLogger
}

// InstallRoot installs ca into every target in order. Soft failures are
// collected in the report; a fatal target error stops the run and is
// returned along with the outcomes gathered so far.
func (i *Installer) InstallRoot(ctx context.Context, ca *CA) (*Report, error) {
	report := new(Report)
	for _, target := range i.Targets {
		log := i.log().WithField("target", target.Description())

		outcomes, err := target.InstallCA(ctx, ca)
		report.Outcomes = append(report.Outcomes, outcomes...)
		if err != nil {
			log.WithError(err).Error("trust store install failed")

			var terr Error
			if !errors.As(err, &terr) || !terr.IsFatal() {
				err = Error{Op: OpInstall, Fatal: err}
			}
			return report, err
		}

		for _, o := range outcomes {
			entry := log.WithFields(logrus.Fields{
				"location": o.Location,
				"status":   o.Status.String(),
			})
			if o.Reason != nil {
				entry = entry.WithError(o.Reason)
			}
			if o.Status == StatusFailed {
				entry.Warn("trust store install outcome")
			} else {
				entry.Info("trust store install outcome")
			}
		}
	}
	return report, nil
}

func (i *Installer) log() logrus.FieldLogger {
	if i.Logger != nil {
		return i.Logger
	}
	return discardLogger
}

var discardLogger = &logrus.Logger{
	Out:       io.Discard,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.PanicLevel,
}
