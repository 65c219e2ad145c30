package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// DefaultsHolder serves the latest forecast defaults to concurrent readers.
type DefaultsHolder struct {
	current atomic.Pointer[ForecastDefaults]
}

func NewDefaultsHolder(initial ForecastDefaults) *DefaultsHolder {
	h := &DefaultsHolder{}
	h.current.Store(&initial)
	return h
}

func (h *DefaultsHolder) Get() ForecastDefaults {
	return *h.current.Load()
}

func (h *DefaultsHolder) Set(d ForecastDefaults) {
	h.current.Store(&d)
}

// ReadDefaults decodes only the forecast section of the config file. Keys
// missing from the file keep the values in base.
func ReadDefaults(path string, base ForecastDefaults) (ForecastDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	doc := struct {
		Forecast ForecastDefaults `yaml:"forecast"`
	}{Forecast: base}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := doc.Forecast.Validate(); err != nil {
		return base, err
	}
	return doc.Forecast, nil
}

// Watch reloads the forecast section of the file at path whenever it is
// written and passes the result to onChange. Invalid edits are logged and
// ignored. Call stop to end watching.
func Watch(path string, holder *DefaultsHolder, onChange func(ForecastDefaults)) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				d, err := ReadDefaults(path, holder.Get())
				if err != nil {
					slog.Warn("forecast defaults reload rejected", "path", path, "error", err)
					continue
				}
				holder.Set(d)
				slog.Info("forecast defaults reloaded", "path", path, "horizon_days", d.HorizonDays, "min_payouts", d.MinPayouts)
				if onChange != nil {
					onChange(d)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "error", err)
			case <-done:
				return
			}
		}
	}()

	return func() { close(done) }, nil
}
