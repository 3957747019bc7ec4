package registry

import "sync"

// Bank is a named collection of trigger samples, identified by a
// publisher-dotted full name (e.g. "devaloop.808") and an optional
// shorter alias it was loaded under.
type Bank struct {
	FullName string
	Alias    string
	Triggers map[string]string // trigger name -> sample URI
}

// BankRegistry indexes banks by both their full name and their alias, so
// `alias.trigger` and `publisher.name.trigger` resolve identically
// (spec.md §8 testable property 8).
type BankRegistry struct {
	mu    sync.RWMutex
	banks map[string]*Bank // keyed by both full name and alias
}

// NewBankRegistry creates an empty registry.
func NewBankRegistry() *BankRegistry {
	return &BankRegistry{banks: make(map[string]*Bank)}
}

// RegisterBank indexes a bank under both its full name and alias.
func (r *BankRegistry) RegisterBank(fullName, alias string, triggers map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := &Bank{FullName: fullName, Alias: alias, Triggers: triggers}
	r.banks[fullName] = b
	if alias != "" {
		r.banks[alias] = b
	}
}

// Alias re-indexes the bank already registered under fullName so it is
// also reachable under alias (spec.md §4.6 Bank statement: "register
// alias (default: last dotted component of name)"). A no-op if fullName
// isn't registered yet.
func (r *BankRegistry) Alias(fullName, alias string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banks[fullName]
	if !ok || alias == "" {
		return
	}
	r.banks[alias] = b
}

// ResolveTrigger looks up aliasOrName.trigger -> URI. An unknown alias or
// trigger yields ok=false; the caller logs a diagnostic and substitutes
// silence (spec.md §4.2, §4.9) rather than treating this as fatal.
func (r *BankRegistry) ResolveTrigger(aliasOrName, trigger string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.banks[aliasOrName]
	if !ok {
		return "", false
	}
	uri, ok := b.Triggers[trigger]
	return uri, ok
}
