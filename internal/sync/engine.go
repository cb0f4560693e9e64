package sync

import (
	"context"
	"errors"
	"sync/atomic"

	"go-pos-sync/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotActivated means this install has not been bound to a cloud tenant
// yet, so there is nowhere to replicate to.
var ErrNotActivated = errors.New("install is not activated")

// RowError records one row that could not be replicated this run. The row
// stays pending and is retried on the next trigger.
type RowError struct {
	Entity  string `json:"entity"`
	LocalID uint   `json:"local_id"`
	Message string `json:"message"`
}

// TableResult counts what happened to one table's pending rows.
type TableResult struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Result summarizes one sync run.
type Result struct {
	RunID          string                 `json:"run_id"`
	AlreadyRunning bool                   `json:"already_running"`
	Tables         map[string]TableResult `json:"tables"`
	Errors         []RowError             `json:"errors,omitempty"`
}

// Synced returns the total rows replicated this run.
func (r *Result) Synced() int {
	var n int
	for _, t := range r.Tables {
		n += t.Synced
	}
	return n
}

// Engine drives one-directional replication of pending local rows to the
// cloud store. At most one run is active at a time; the running flag lives
// on the instance so tests can spin up as many engines as they need.
type Engine struct {
	db      *gorm.DB
	client  CloudClient
	log     *zap.Logger
	running atomic.Bool
}

func NewEngine(db *gorm.DB, client CloudClient, log *zap.Logger) *Engine {
	return &Engine{db: db, client: client, log: log}
}

// Run replicates every pending row it can, table by table, tenant roots
// first. Invoking it while a run is in flight returns immediately with
// AlreadyRunning set and makes no network calls. A single row's failure
// never aborts the run; rows transition independently and the next run
// resumes from whatever is still pending.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if !e.running.CompareAndSwap(false, true) {
		return &Result{AlreadyRunning: true}, nil
	}
	defer e.running.Store(false)

	var activation models.ActivationState
	if err := e.db.First(&activation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotActivated
		}
		return nil, err
	}
	e.client.Authorize(activation.SyncToken, activation.DeviceID)

	result := &Result{RunID: uuid.NewString(), Tables: make(map[string]TableResult)}
	e.log.Info("sync run started", zap.String("run_id", result.RunID))

	// Fixed dependency order: companies before anything that references a
	// company, categories and vendors before products.
	steps := []struct {
		table string
		run   func(context.Context, *Result) error
	}{
		{collectionCompanies, e.syncCompanies},
		{collectionUsers, e.syncUsers},
		{collectionCategories, e.syncCategories},
		{collectionVendors, e.syncVendors},
		{collectionProducts, e.syncProducts},
		{collectionCustomers, e.syncCustomers},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := step.run(ctx, result); err != nil {
			// Local read failure for a whole table; the deferred flag
			// release still runs, the caller gets one summary error.
			e.log.Error("sync table aborted",
				zap.String("run_id", result.RunID),
				zap.String("table", step.table),
				zap.Error(err))
			return result, err
		}
	}

	e.log.Info("sync run finished",
		zap.String("run_id", result.RunID),
		zap.Int("synced", result.Synced()),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

func (e *Engine) syncCompanies(ctx context.Context, result *Result) error {
	var rows []models.Company
	if err := e.db.Where("sync_status = ?", models.SyncPending).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		e.submit(ctx, result, collectionCompanies, row.ID, &models.Company{}, companyPayload(row))
	}

	// Once the bound company has its cloud id, remember it on the
	// activation row.
	var activation models.ActivationState
	if err := e.db.First(&activation).Error; err == nil &&
		activation.CompanyGlobalID == 0 && activation.CompanyID != 0 {
		if gid, err := e.companyGlobalID(activation.CompanyID); err == nil && gid != nil {
			e.db.Model(&activation).Update("company_global_id", *gid)
		}
	}
	return nil
}

func (e *Engine) syncUsers(ctx context.Context, result *Result) error {
	// Platform-level users (nil company) have no tenant to attach to on
	// the cloud side; they are excluded outright, not deferred.
	var rows []models.User
	err := e.db.Where("sync_status = ? AND company_id IS NOT NULL", models.SyncPending).Find(&rows).Error
	if err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		parent, err := e.companyGlobalID(*row.CompanyID)
		if err != nil {
			e.fail(result, collectionUsers, row.ID, err)
			continue
		}
		if parent == nil {
			e.skip(result, collectionUsers, row.ID)
			continue
		}
		e.submit(ctx, result, collectionUsers, row.ID, &models.User{}, userPayload(row, *parent))
	}
	return nil
}

func (e *Engine) syncCategories(ctx context.Context, result *Result) error {
	var rows []models.Category
	if err := e.db.Where("sync_status = ?", models.SyncPending).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		parent, err := e.companyGlobalID(row.CompanyID)
		if err != nil {
			e.fail(result, collectionCategories, row.ID, err)
			continue
		}
		if parent == nil {
			e.skip(result, collectionCategories, row.ID)
			continue
		}
		e.submit(ctx, result, collectionCategories, row.ID, &models.Category{}, categoryPayload(row, *parent))
	}
	return nil
}

func (e *Engine) syncVendors(ctx context.Context, result *Result) error {
	var rows []models.Vendor
	if err := e.db.Where("sync_status = ?", models.SyncPending).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		parent, err := e.companyGlobalID(row.CompanyID)
		if err != nil {
			e.fail(result, collectionVendors, row.ID, err)
			continue
		}
		if parent == nil {
			e.skip(result, collectionVendors, row.ID)
			continue
		}
		e.submit(ctx, result, collectionVendors, row.ID, &models.Vendor{}, vendorPayload(row, *parent))
	}
	return nil
}

func (e *Engine) syncProducts(ctx context.Context, result *Result) error {
	var rows []models.Product
	if err := e.db.Where("sync_status = ?", models.SyncPending).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		company, err := e.companyGlobalID(row.CompanyID)
		if err != nil {
			e.fail(result, collectionProducts, row.ID, err)
			continue
		}
		if company == nil {
			e.skip(result, collectionProducts, row.ID)
			continue
		}

		// A product referencing a not-yet-synced category or vendor waits
		// for a later run, same as users behind their company.
		var category, vendor *uint
		if row.CategoryID != nil {
			category, err = e.globalID(&models.Category{}, *row.CategoryID)
			if err != nil {
				e.fail(result, collectionProducts, row.ID, err)
				continue
			}
			if category == nil {
				e.skip(result, collectionProducts, row.ID)
				continue
			}
		}
		if row.VendorID != nil {
			vendor, err = e.globalID(&models.Vendor{}, *row.VendorID)
			if err != nil {
				e.fail(result, collectionProducts, row.ID, err)
				continue
			}
			if vendor == nil {
				e.skip(result, collectionProducts, row.ID)
				continue
			}
		}

		e.submit(ctx, result, collectionProducts, row.ID, &models.Product{}, productPayload(row, *company, category, vendor))
	}
	return nil
}

func (e *Engine) syncCustomers(ctx context.Context, result *Result) error {
	var rows []models.Customer
	if err := e.db.Where("sync_status = ?", models.SyncPending).Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		parent, err := e.companyGlobalID(row.CompanyID)
		if err != nil {
			e.fail(result, collectionCustomers, row.ID, err)
			continue
		}
		if parent == nil {
			e.skip(result, collectionCustomers, row.ID)
			continue
		}
		e.submit(ctx, result, collectionCustomers, row.ID, &models.Customer{}, customerPayload(row, *parent))
	}
	return nil
}

// submit pushes one row to the cloud and, on success, marks it synced with
// the returned id in a single id-scoped update.
func (e *Engine) submit(ctx context.Context, result *Result, table string, localID uint, model any, payload map[string]any) {
	globalID, err := e.client.Create(ctx, table, payload)
	if err != nil {
		e.fail(result, table, localID, err)
		return
	}

	err = e.db.Model(model).Where("id = ?", localID).Updates(map[string]any{
		"sync_status": models.SyncSynced,
		"global_id":   globalID,
	}).Error
	if err != nil {
		e.fail(result, table, localID, err)
		return
	}

	tr := result.Tables[table]
	tr.Synced++
	result.Tables[table] = tr
}

func (e *Engine) fail(result *Result, table string, localID uint, err error) {
	tr := result.Tables[table]
	tr.Failed++
	result.Tables[table] = tr
	result.Errors = append(result.Errors, RowError{Entity: table, LocalID: localID, Message: err.Error()})
	e.log.Warn("row sync failed",
		zap.String("entity", table),
		zap.Uint("local_id", localID),
		zap.Error(err))
}

// skip leaves a row pending because a parent it references has no global id
// yet. Not an error; a later run picks it up.
func (e *Engine) skip(result *Result, table string, localID uint) {
	tr := result.Tables[table]
	tr.Skipped++
	result.Tables[table] = tr
	e.log.Debug("row deferred, parent not synced",
		zap.String("entity", table),
		zap.Uint("local_id", localID))
}

func (e *Engine) companyGlobalID(localID uint) (*uint, error) {
	return e.globalID(&models.Company{}, localID)
}

// globalID reads just the cloud id column for one row of any syncable
// model. Nil means the parent row exists but has not synced yet.
func (e *Engine) globalID(model any, localID uint) (*uint, error) {
	var meta models.SyncMeta
	err := e.db.Model(model).Select("global_id", "sync_status").Where("id = ?", localID).Take(&meta).Error
	if err != nil {
		return nil, err
	}
	return meta.GlobalID, nil
}
