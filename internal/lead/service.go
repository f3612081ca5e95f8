package lead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/heliocrm/api-leads/internal/cache"
	"github.com/heliocrm/api-leads/internal/calllog"
	"github.com/heliocrm/api-leads/internal/events"
	"github.com/heliocrm/api-leads/internal/notification"
	"github.com/heliocrm/api-leads/internal/user"
)

const listCacheTTL = 5 * time.Minute

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID   uint
	Name string
}

// BulkResult reports the per-lead outcome of a bulk assignment. Every id is
// attempted; there is no rollback of earlier successes.
type BulkResult struct {
	Succeeded []uint        `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type BulkFailure struct {
	LeadID uint   `json:"leadId"`
	Error  string `json:"error"`
}

// Service owns the lead lifecycle: status changes, assignment, interaction
// logs, and the cache/event bookkeeping around them. Reads of role-scoped
// lists go through the cache; every mutation deletes the affected keys.
type Service struct {
	DB       *gorm.DB
	Leads    Repository
	Logs     calllog.Repository
	Users    user.Repository
	Cache    cache.Cache
	Events   events.Publisher
	Notifier notification.Notifier
}

func NewService(db *gorm.DB, c cache.Cache, pub events.Publisher, n notification.Notifier) *Service {
	return &Service{
		DB:       db,
		Leads:    NewRepository(),
		Logs:     calllog.NewRepository(),
		Users:    user.NewRepository(),
		Cache:    c,
		Events:   pub,
		Notifier: n,
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Create stores a new lead owned by the creating salesman with status new.
// A duplicate phone raises a webhook alert but does not block creation.
func (s *Service) Create(ctx context.Context, l *Lead, salesman Actor) (*Lead, error) {
	dupes, err := s.Leads.CountByPhone(s.DB, l.Phone)
	if err != nil {
		return nil, err
	}

	l.Status = StatusNew
	l.SalesmanID = salesman.ID
	l.SalesmanName = salesman.Name
	l.CallOperatorID = nil
	l.CallOperatorName = ""
	l.TechnicianID = nil
	l.TechnicianName = ""

	if err := s.Leads.Create(s.DB, l); err != nil {
		return nil, err
	}

	if dupes > 0 && s.Notifier != nil {
		go s.Notifier.DuplicatePhoneAlert(l.Phone)
	}

	s.invalidate(ctx, l)
	s.publish(ctx, events.LeadEvent{
		Type:    events.TypeLeadCreated,
		LeadID:  l.ID,
		Status:  string(l.Status),
		ActorID: salesman.ID,
		At:      time.Now(),
	})
	return l, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*Lead, error) {
	l, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// Update rewrites the customer-facing fields. Status and ownership are only
// mutated through their dedicated operations.
func (s *Service) Update(ctx context.Context, id uint, patch *Lead) (*Lead, error) {
	existing, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}

	existing.Name = patch.Name
	existing.Phone = patch.Phone
	existing.SecondaryPhone = patch.SecondaryPhone
	existing.Address = patch.Address
	existing.PropertyType = patch.PropertyType
	existing.Likelihood = patch.Likelihood

	if err := s.Leads.Update(s.DB, existing); err != nil {
		return nil, err
	}
	s.invalidate(ctx, existing)
	return existing, nil
}

// ListForUser returns the role-scoped lead list. Unsearched lists are served
// from the cache when possible.
func (s *Service) ListForUser(ctx context.Context, actorID uint, role user.Role, search string) ([]Lead, error) {
	key := listKey(role, actorID)
	if search == "" && s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, key); err == nil && raw != nil {
			var cached []Lead
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var (
		list []Lead
		err  error
	)
	switch role {
	case user.RoleSalesman:
		list, err = s.Leads.ListBySalesman(s.DB, actorID, search)
	case user.RoleCallOperator:
		list, err = s.Leads.ListByOperator(s.DB, actorID, search)
	case user.RoleTechnician:
		list, err = s.Leads.ListByTechnician(s.DB, actorID, search)
	default:
		list, err = s.Leads.ListAll(s.DB, search)
	}
	if err != nil {
		return nil, err
	}

	if search == "" && s.Cache != nil {
		if raw, err := json.Marshal(list); err == nil {
			_ = s.Cache.Set(ctx, key, raw, listCacheTTL)
		}
	}
	return list, nil
}

// ListUnassigned returns the pool a team lead assigns from.
func (s *Service) ListUnassigned(ctx context.Context, search string) ([]Lead, error) {
	return s.Leads.ListUnassigned(s.DB, search)
}

// TodayActivity lists leads touched since local midnight. A status change's
// timestamp, not the creation timestamp, is what counts as activity.
func (s *Service) TodayActivity(ctx context.Context) ([]Lead, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.Leads.ListUpdatedSince(s.DB, midnight)
}

// UpdateStatus moves a lead to newStatus and appends the coupled CallLog in
// the same transaction. The transition table is enforced; notes are stored
// verbatim, absent notes as the empty string.
func (s *Service) UpdateStatus(ctx context.Context, id uint, newStatus Status, notes string, actor Actor) (*Lead, error) {
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var updated *Lead
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		l, err := s.Leads.FindByID(tx, id)
		if err != nil {
			return notFound(err)
		}
		if !l.Status.CanTransition(newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, l.Status, newStatus)
		}
		if err := s.Leads.UpdateStatus(tx, id, newStatus); err != nil {
			return err
		}
		entry := &calllog.CallLog{
			LeadID:       id,
			UserID:       actor.ID,
			UserName:     actor.Name,
			StatusAtCall: string(newStatus),
			Notes:        notes,
		}
		if err := s.Logs.CreateCallLog(tx, entry); err != nil {
			return err
		}
		l.Status = newStatus
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated)
	s.publish(ctx, events.LeadEvent{
		Type:    events.TypeLeadStatusChanged,
		LeadID:  id,
		Status:  string(newStatus),
		ActorID: actor.ID,
		At:      time.Now(),
	})
	return updated, nil
}

// LogCall appends a standalone CallLog without touching the lead. The log
// records the lead's current status.
func (s *Service) LogCall(ctx context.Context, id uint, notes string, actor Actor) (*calllog.CallLog, error) {
	l, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}
	entry := &calllog.CallLog{
		LeadID:       id,
		UserID:       actor.ID,
		UserName:     actor.Name,
		StatusAtCall: string(l.Status),
		Notes:        notes,
	}
	if err := s.Logs.CreateCallLog(s.DB, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// LogCallLater appends a CallLaterLog and bumps the lead's denormalized
// call-later fields in the same transaction.
func (s *Service) LogCallLater(ctx context.Context, id uint, date time.Time, reason, notes string, operator Actor) (*calllog.CallLaterLog, error) {
	var entry *calllog.CallLaterLog
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		l, err := s.Leads.FindByID(tx, id)
		if err != nil {
			return notFound(err)
		}
		entry = &calllog.CallLaterLog{
			LeadID:        id,
			OperatorID:    operator.ID,
			OperatorName:  operator.Name,
			CallLaterDate: date,
			Reason:        reason,
			Notes:         notes,
		}
		if err := s.Logs.CreateCallLaterLog(tx, entry); err != nil {
			return err
		}
		l.CallLaterCount++
		l.LastCallLaterDate = &date
		l.LastCallLaterReason = reason
		return s.Leads.Update(tx, l)
	})
	if err != nil {
		return nil, err
	}
	s.invalidateByID(ctx, id)
	return entry, nil
}

// RecountCallLater recomputes the denormalized call-later fields from the
// CallLaterLog table, the source of truth.
func (s *Service) RecountCallLater(ctx context.Context, id uint) (*Lead, error) {
	var updated *Lead
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		l, err := s.Leads.FindByID(tx, id)
		if err != nil {
			return notFound(err)
		}
		count, err := s.Logs.CountCallLaterLogs(tx, id)
		if err != nil {
			return err
		}
		latest, err := s.Logs.LatestCallLaterLog(tx, id)
		if err != nil {
			return err
		}
		l.CallLaterCount = int(count)
		if latest != nil {
			d := latest.CallLaterDate
			l.LastCallLaterDate = &d
			l.LastCallLaterReason = latest.Reason
		} else {
			l.LastCallLaterDate = nil
			l.LastCallLaterReason = ""
		}
		updated = l
		return s.Leads.Update(tx, l)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// activeUser fetches the target of an assignment and checks role and active
// flag before any write happens.
func (s *Service) activeUser(id uint, role user.Role, roleErr error) (*user.User, error) {
	u, err := s.Users.FindByID(s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roleErr
		}
		return nil, err
	}
	if !u.Active || u.Role != role {
		return nil, roleErr
	}
	return u, nil
}

// Reassign hands the lead to another call operator. Status is untouched and
// the operation is idempotent: repeating it yields the same final state.
func (s *Service) Reassign(ctx context.Context, id uint, toOperatorID uint) (*Lead, error) {
	op, err := s.activeUser(toOperatorID, user.RoleCallOperator, ErrNotCallOperator)
	if err != nil {
		return nil, err
	}

	previous, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}

	if err := s.Leads.UpdateOperator(s.DB, id, op.ID, op.Name); err != nil {
		return nil, notFound(err)
	}

	updated, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}

	s.invalidate(ctx, previous)
	s.invalidate(ctx, updated)
	s.publish(ctx, events.LeadEvent{
		Type:       events.TypeLeadReassigned,
		LeadID:     id,
		OperatorID: op.ID,
		At:         time.Now(),
	})
	return updated, nil
}

// AssignTechnician hands the lead to a technician for the install visit.
func (s *Service) AssignTechnician(ctx context.Context, id uint, technicianID uint) (*Lead, error) {
	tech, err := s.activeUser(technicianID, user.RoleTechnician, ErrNotTechnician)
	if err != nil {
		return nil, err
	}

	previous, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}

	if err := s.Leads.UpdateTechnician(s.DB, id, tech.ID, tech.Name); err != nil {
		return nil, notFound(err)
	}

	updated, err := s.Leads.FindByID(s.DB, id)
	if err != nil {
		return nil, notFound(err)
	}

	s.invalidate(ctx, previous)
	s.invalidate(ctx, updated)
	s.publish(ctx, events.LeadEvent{
		Type:         events.TypeLeadTechnicianAssigned,
		LeadID:       id,
		TechnicianID: tech.ID,
		At:           time.Now(),
	})
	return updated, nil
}

// BulkAssign reassigns every lead in ids to the operator, best-effort. The
// result reports per-lead failures instead of aborting on the first one.
func (s *Service) BulkAssign(ctx context.Context, ids []uint, operatorID uint) (*BulkResult, error) {
	if _, err := s.activeUser(operatorID, user.RoleCallOperator, ErrNotCallOperator); err != nil {
		return nil, err
	}

	result := &BulkResult{Succeeded: []uint{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		if _, err := s.Reassign(ctx, id, operatorID); err != nil {
			result.Failed = append(result.Failed, BulkFailure{LeadID: id, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

// BulkAssignUnassigned assigns leads from the unassigned pool. Leads that
// already have an operator (including ones grabbed concurrently by another
// admin) land in Failed rather than being silently taken over.
func (s *Service) BulkAssignUnassigned(ctx context.Context, ids []uint, operatorID uint) (*BulkResult, error) {
	op, err := s.activeUser(operatorID, user.RoleCallOperator, ErrNotCallOperator)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{Succeeded: []uint{}, Failed: []BulkFailure{}}
	for _, id := range ids {
		rows, err := s.Leads.UpdateOperatorIfUnassigned(s.DB, id, op.ID, op.Name)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{LeadID: id, Error: err.Error()})
			continue
		}
		if rows == 0 {
			if _, findErr := s.Leads.FindByID(s.DB, id); findErr != nil {
				result.Failed = append(result.Failed, BulkFailure{LeadID: id, Error: ErrNotFound.Error()})
			} else {
				result.Failed = append(result.Failed, BulkFailure{LeadID: id, Error: ErrAlreadyAssigned.Error()})
			}
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
		s.invalidateByID(ctx, id)
	}
	s.invalidateKeys(ctx, listKey(user.RoleCallOperator, op.ID))
	return result, nil
}

func listKey(role user.Role, actorID uint) string {
	switch role {
	case user.RoleTeamLead, user.RoleSuperAdmin:
		return "leads:all"
	default:
		return fmt.Sprintf("leads:%s:%d", role, actorID)
	}
}

// invalidate deletes the cached lists a mutation of l could have staled.
func (s *Service) invalidate(ctx context.Context, l *Lead) {
	keys := []string{"leads:all", listKey(user.RoleSalesman, l.SalesmanID)}
	if l.CallOperatorID != nil {
		keys = append(keys, listKey(user.RoleCallOperator, *l.CallOperatorID))
	}
	if l.TechnicianID != nil {
		keys = append(keys, listKey(user.RoleTechnician, *l.TechnicianID))
	}
	s.invalidateKeys(ctx, keys...)
}

func (s *Service) invalidateByID(ctx context.Context, id uint) {
	if l, err := s.Leads.FindByID(s.DB, id); err == nil {
		s.invalidate(ctx, l)
	}
}

func (s *Service) invalidateKeys(ctx context.Context, keys ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}
}

func (s *Service) publish(ctx context.Context, ev events.LeadEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, ev); err != nil {
		log.Printf("failed to publish %s event for lead %d: %v", ev.Type, ev.LeadID, err)
	}
}
