// Package alerts resolves user-facing notification keys against the
// embedded localized message catalog and delivers them on a shared channel.
package alerts

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var messageFiles embed.FS

// Severity classifies an alert for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Alert is one resolved user-facing notification.
type Alert struct {
	Severity Severity
	Key      string
	Message  string
}

// Notifier receives resolved alerts. The UI shell provides the real one.
type Notifier interface {
	Notify(alert Alert)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(alert Alert)

func (f NotifierFunc) Notify(alert Alert) { f(alert) }

// Catalog holds the localized messages loaded from the embedded YAML files.
type Catalog struct {
	messages map[string]string
}

// NewCatalog loads the message catalog for a locale.
func NewCatalog(locale string) (*Catalog, error) {
	filename := fmt.Sprintf("messages/%s.yaml", locale)
	data, err := messageFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	messages := make(map[string]string)
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	return &Catalog{messages: messages}, nil
}

// Resolve returns the localized message for a key, falling back to the key
// itself for anything missing from the catalog.
func (c *Catalog) Resolve(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	return key
}

// Alerter is the shared alert channel handed to mutating actions.
type Alerter struct {
	catalog *Catalog
	sink    Notifier
}

// NewAlerter wires a catalog to a notifier sink.
func NewAlerter(catalog *Catalog, sink Notifier) *Alerter {
	return &Alerter{catalog: catalog, sink: sink}
}

// Success surfaces a localized success notification.
func (a *Alerter) Success(key string) {
	a.sink.Notify(Alert{Severity: SeveritySuccess, Key: key, Message: a.catalog.Resolve(key)})
}

// Error surfaces a localized failure notification.
func (a *Alerter) Error(key string) {
	a.sink.Notify(Alert{Severity: SeverityError, Key: key, Message: a.catalog.Resolve(key)})
}
