package adaptor

import (
	"errors"
	"fmt"
)

// RefreshResult summarizes one refresh cycle.
type RefreshResult struct {
	Added   []*Adaptor
	Changed []*Adaptor // hardware address or ifIndex updated in place
	Removed []*Adaptor
}

// Empty reports whether the cycle changed nothing.
func (res RefreshResult) Empty() bool {
	return len(res.Added) == 0 && len(res.Changed) == 0 && len(res.Removed) == 0
}

// Refresh runs one full cycle against e. If the enumerator fails the
// registry is not touched. Invalid or duplicate sightings are skipped and
// reported together in the returned error; the cycle still completes so
// records that were sighted correctly are kept.
func (r *Registry) Refresh(e Enumerator) (RefreshResult, error) {
	sightings, err := e.Interfaces()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %w", ErrEnumerate, err)
	}

	var (
		res  RefreshResult
		errs []error
	)
	r.MarkAll()
	for _, s := range sightings {
		ent, created, changed, err := r.getOrCreate(s.Name, s.HardwareAddr, s.IfIndex)
		switch {
		case err != nil:
			errs = append(errs, err)
		case created:
			res.Added = append(res.Added, ent.ad)
		case changed:
			res.Changed = append(res.Changed, ent.ad)
		}
	}
	res.Removed = r.Sweep()

	if !res.Empty() {
		r.log.Debug("adaptor refresh",
			"added", len(res.Added), "changed", len(res.Changed), "removed", len(res.Removed), "total", r.Len())
	}
	return res, errors.Join(errs...)
}
