package runner

import (
	"time"

	"github.com/rs/zerolog"

	"convcompare/internal/target"
)

// RunDependencies allows injecting transports, clocks, and the operator gate.
type RunDependencies struct {
	HTTP     target.HTTPDoer
	Gate     Gate
	Observer RunObserver
	Sleep    target.SleepFunc
	Now      func() time.Time
	RunID    func() (string, error)
	Logger   zerolog.Logger
	// Provisioner customizes generated identities; tests pin clocks here.
	Provisioner []target.ProvisionerOption
}

// RunParams configures a run invocation.
type RunParams struct {
	// BaseURL overrides target.base_url when set.
	BaseURL string
	// Selectors restricts and orders the configurations to run.
	Selectors []string
	// OutputDir overrides output.dir for RunAndWrite.
	OutputDir string
	Deps      RunDependencies
}

func (d RunDependencies) withDefaults() RunDependencies {
	if d.Gate == nil {
		d.Gate = ReadyGate{}
	}
	if d.Observer == nil {
		d.Observer = NopObserver{}
	}
	if d.Sleep == nil {
		d.Sleep = target.Sleep
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.RunID == nil {
		d.RunID = NewRunID
	}
	return d
}
