package manager

import (
	"errors"
	"fmt"

	"github.com/conn-castle/govm/internal/messages"
)

// PrunePlan lists what Prune would keep and remove.
type PrunePlan struct {
	Keep      int
	Installed []string
	// Retained are the newest Keep versions.
	Retained []string
	// Protected is the global default when it falls outside the retained window.
	Protected string
	Remove    []string
}

// Confirmer approves a prune plan before anything is deleted.
type Confirmer interface {
	ConfirmPrune(plan PrunePlan) (bool, error)
}

// ConfirmFunc adapts a function into a Confirmer.
type ConfirmFunc func(plan PrunePlan) (bool, error)

// ConfirmPrune calls f.
func (f ConfirmFunc) ConfirmPrune(plan PrunePlan) (bool, error) {
	return f(plan)
}

// PruneResult reports what Prune did.
type PruneResult struct {
	Plan      PrunePlan
	Confirmed bool
	Removed   []string
}

// PlanPrune keeps the newest keep versions plus the global default and marks
// everything else for removal.
func (m *Manager) PlanPrune(keep int) (PrunePlan, error) {
	if keep < 0 {
		return PrunePlan{}, fmt.Errorf(messages.ManagerNegativeKeepFmt, keep)
	}
	installed, err := m.Registry.List()
	if err != nil {
		return PrunePlan{}, err
	}
	plan := PrunePlan{Keep: keep, Installed: installed}
	if len(installed) <= keep {
		plan.Retained = installed
		return plan, nil
	}
	plan.Retained = installed[:keep]
	global, hasGlobal := m.Global()
	for _, v := range installed[keep:] {
		if hasGlobal && v == global {
			plan.Protected = v
			continue
		}
		plan.Remove = append(plan.Remove, v)
	}
	return plan, nil
}

// Prune removes the versions in PlanPrune(keep) once confirm approves them.
// Nothing is asked or removed when the plan is empty.
func (m *Manager) Prune(keep int, confirm Confirmer) (PruneResult, error) {
	plan, err := m.PlanPrune(keep)
	if err != nil {
		return PruneResult{}, err
	}
	result := PruneResult{Plan: plan}
	if len(plan.Remove) == 0 {
		return result, nil
	}
	if confirm == nil {
		return result, errors.New(messages.ManagerConfirmerRequired)
	}
	ok, err := confirm.ConfirmPrune(plan)
	if err != nil {
		return result, err
	}
	if !ok {
		return result, nil
	}
	result.Confirmed = true
	for _, v := range plan.Remove {
		if err := m.Registry.Remove(v); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, v)
	}
	m.Logger.Info().Strs("removed", result.Removed).Msg("pruned")
	return result, nil
}
