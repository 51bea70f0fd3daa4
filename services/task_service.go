package services

import (
	"math/rand"
	"sync"

	"gorm.io/gorm"

	"github.com/taskman-app/taskman-api/models"
)

// taskTypesByRole routes the shared task queue to staff roles: the kitchen
// sees food orders, the bar sees drink orders, and the waiter sees everything
// that ends at the table.
var taskTypesByRole = map[string][]models.TaskType{
	models.RoleChef:      {models.TaskFoodOrdered},
	models.RoleBarkeeper: {models.TaskDrinkOrdered},
	models.RoleWaiter: {
		models.TaskFoodPrepared,
		models.TaskDrinkPrepared,
		models.TaskTalkRequested,
		models.TaskPaymentRequestedCash,
		models.TaskPaymentRequestedCard,
	},
}

// AdvanceResult is the outcome of advancing a task. Task is the record the
// caller should see next: the mutated task itself, or the freshly spawned
// successor when a relay task completes. Informational outcomes (advancing a
// relay task that is already done, unknown task types) carry only a message.
type AdvanceResult struct {
	Task    *models.Task
	Message string
}

// TaskEvent is the payload pushed to the guest's notification subject when a
// task of theirs is created or advanced.
type TaskEvent struct {
	Kind string       `json:"kind"` // "task-created" or "task-advanced"
	Task *models.Task `json:"task"`
}

// TaskService is the task workflow engine. It owns task creation rules,
// status transitions and role-based retrieval. It holds no task state in
// memory; every transition re-reads and re-writes through the store.
type TaskService struct {
	db       *gorm.DB
	notifier Notifier

	// guestLocks serializes check-then-create per guest so that duplicate
	// talk/payment requests cannot race past the dedup check.
	guestLocks sync.Map // map[string]*sync.Mutex
}

// NewTaskService creates a task service backed by the given store. The
// notifier may be nil, in which case no events are pushed.
func NewTaskService(db *gorm.DB, notifier Notifier) *TaskService {
	return &TaskService{db: db, notifier: notifier}
}

// ListTasks returns the tasks visible to the given staff role, optionally
// narrowed by status, sorted oldest first.
func (s *TaskService) ListTasks(role string, status models.TaskStatus) ([]models.Task, error) {
	types, ok := taskTypesByRole[role]
	if !ok {
		return nil, &AuthorizationError{Message: "You are not allowed to claim tasks."}
	}

	query := s.db.Where("type IN ?", types)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	tasks := []models.Task{}
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, &StoreError{Op: "list tasks", Err: err}
	}
	return tasks, nil
}

// RequestTask creates a guest-initiated task (talk or payment request).
// Order-derived types are never created through this entry point.
func (s *TaskService) RequestTask(guestID string, taskType models.TaskType, data *models.PaymentData) (*models.Task, error) {
	// Serialize per guest: the dedup check and the create must not interleave
	// with a concurrent request for the same guest.
	lock := s.guestLock(guestID)
	lock.Lock()
	defer lock.Unlock()

	switch taskType {
	case models.TaskTalkRequested:
		return s.requestTalkTask(guestID)
	case models.TaskPaymentRequestedCash, models.TaskPaymentRequestedCard:
		return s.requestPaymentTask(guestID, taskType, data)
	default:
		return nil, &ValidationError{Message: "Task type not supported."}
	}
}

// Advance moves a task one step through open -> claimed -> done. Relay tasks
// spawn their prepared successor when they complete; simple tasks terminate.
func (s *TaskService) Advance(taskID, actorID string) (*AdvanceResult, error) {
	var task models.Task
	if err := s.db.Where("id = ?", taskID).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "Task"}
		}
		return nil, &StoreError{Op: "find task", Err: err}
	}

	switch {
	case task.Type.IsRelay():
		return s.advanceRelayTask(&task, actorID)
	case task.Type.IsSimple():
		return s.advanceSimpleTask(&task, actorID)
	default:
		return &AdvanceResult{Message: "Task type not supported."}, nil
	}
}

// CreateOrderTask creates an open FOOD_ORDERED or DRINK_ORDERED task carrying
// the given partition of a guest's cart. Called by order intake only.
func (s *TaskService) CreateOrderTask(guestID string, taskType models.TaskType, items []models.OrderItem) (*models.Task, error) {
	if !taskType.IsRelay() {
		return nil, &ValidationError{Message: "Task type not supported."}
	}

	task := models.Task{
		SimpleID: s.generateSimpleID(),
		Type:     taskType,
		Status:   models.TaskStatusOpen,
		Order:    items,
		GuestID:  guestID,
	}
	if taskType == models.TaskFoodOrdered {
		task.Title = "Food Order"
		task.Description = "Food ordered"
	} else {
		task.Title = "Drink Order"
		task.Description = "Drink ordered"
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, &StoreError{Op: "create task", Err: err}
	}
	s.notify(guestID, "task-created", &task)
	return &task, nil
}

func (s *TaskService) requestTalkTask(guestID string) (*models.Task, error) {
	// At most one outstanding (open or claimed) talk request per guest.
	var count int64
	err := s.db.Model(&models.Task{}).
		Where("type = ? AND guest_id = ? AND status IN ?",
			models.TaskTalkRequested, guestID,
			[]models.TaskStatus{models.TaskStatusOpen, models.TaskStatusClaimed}).
		Count(&count).Error
	if err != nil {
		return nil, &StoreError{Op: "find talk task", Err: err}
	}
	if count > 0 {
		return nil, &ConflictError{Message: "You already requested a talk. A Waiter will come to you!"}
	}

	task := models.Task{
		SimpleID:    s.generateSimpleID(),
		Title:       "Talk",
		Description: "Waiter requested",
		Type:        models.TaskTalkRequested,
		Status:      models.TaskStatusOpen,
		GuestID:     guestID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, &StoreError{Op: "create task", Err: err}
	}
	s.notify(guestID, "task-created", &task)
	return &task, nil
}

func (s *TaskService) requestPaymentTask(guestID string, taskType models.TaskType, data *models.PaymentData) (*models.Task, error) {
	// At most one open payment request per guest, cash and card combined.
	var count int64
	err := s.db.Model(&models.Task{}).
		Where("type IN ? AND guest_id = ? AND status = ?",
			[]models.TaskType{models.TaskPaymentRequestedCash, models.TaskPaymentRequestedCard},
			guestID, models.TaskStatusOpen).
		Count(&count).Error
	if err != nil {
		return nil, &StoreError{Op: "find payment task", Err: err}
	}
	if count > 0 {
		return nil, &ConflictError{Message: "You already requested a payment. A Waiter will come to you!"}
	}

	task := models.Task{
		SimpleID:    s.generateSimpleID(),
		Title:       "Payment requested",
		Description: "Payment requested",
		Type:        taskType,
		Status:      models.TaskStatusOpen,
		Data:        data,
		GuestID:     guestID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, &StoreError{Op: "create task", Err: err}
	}
	s.notify(guestID, "task-created", &task)
	return &task, nil
}

// advanceRelayTask handles FOOD_ORDERED and DRINK_ORDERED: a relay between
// two roles. Claiming marks the kitchen/bar as preparing; completing hands
// off to the waiter by spawning the matching prepared task.
func (s *TaskService) advanceRelayTask(task *models.Task, actorID string) (*AdvanceResult, error) {
	switch task.Status {
	case models.TaskStatusOpen:
		task.Status = models.TaskStatusClaimed
		if err := s.updateTask(task.ID, map[string]interface{}{"status": task.Status}); err != nil {
			return nil, err
		}
		s.notify(task.GuestID, "task-advanced", task)
		return &AdvanceResult{Task: task}, nil

	case models.TaskStatusClaimed:
		task.Status = models.TaskStatusDone
		task.ClaimerID = &actorID
		if err := s.updateTask(task.ID, map[string]interface{}{"status": task.Status, "claimer_id": actorID}); err != nil {
			return nil, err
		}

		successor := models.Task{
			SimpleID: task.SimpleID, // same short code so staff can correlate the handoff
			Type:     models.TaskFoodPrepared,
			Status:   models.TaskStatusOpen,
			Order:    task.Order,
			GuestID:  task.GuestID,
		}
		if task.Type == models.TaskFoodOrdered {
			successor.Title = "Food Preparation"
			successor.Description = "Food prepared"
		} else {
			successor.Type = models.TaskDrinkPrepared
			successor.Title = "Drink Preparation"
			successor.Description = "Drink prepared"
		}
		if err := s.db.Create(&successor).Error; err != nil {
			return nil, &StoreError{Op: "create successor task", Err: err}
		}
		s.notify(task.GuestID, "task-created", &successor)
		return &AdvanceResult{Task: &successor}, nil

	default:
		return &AdvanceResult{Message: "Task is already done."}, nil
	}
}

// advanceSimpleTask handles terminal task types worked start-to-finish by one
// role. Advancing a done task is a conflict, not a no-op.
func (s *TaskService) advanceSimpleTask(task *models.Task, actorID string) (*AdvanceResult, error) {
	switch task.Status {
	case models.TaskStatusOpen:
		task.Status = models.TaskStatusClaimed
	case models.TaskStatusClaimed:
		task.Status = models.TaskStatusDone
	default:
		return nil, &ConflictError{Message: "You cannot update a task that is done."}
	}

	task.ClaimerID = &actorID
	if err := s.updateTask(task.ID, map[string]interface{}{"status": task.Status, "claimer_id": actorID}); err != nil {
		return nil, err
	}
	s.notify(task.GuestID, "task-advanced", task)
	return &AdvanceResult{Task: task}, nil
}

// updateTask merges the given fields into the task row. A missing id is a
// NotFoundError rather than a silent no-op.
func (s *TaskService) updateTask(id string, fields map[string]interface{}) error {
	result := s.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return &StoreError{Op: "update task", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Resource: "Task"}
	}
	return nil
}

const simpleIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateSimpleID produces the 5-character code staff see on their boards.
// A few uniqueness attempts are made against existing tasks; after that the
// last candidate is used, accepting the residual collision probability.
func (s *TaskService) generateSimpleID() string {
	var candidate string
	for attempt := 0; attempt < 5; attempt++ {
		code := make([]byte, 5)
		for i := range code {
			code[i] = simpleIDCharset[rand.Intn(len(simpleIDCharset))]
		}
		candidate = string(code)

		var count int64
		if err := s.db.Model(&models.Task{}).Where("simple_id = ?", candidate).Count(&count).Error; err != nil || count == 0 {
			break
		}
	}
	return candidate
}

func (s *TaskService) guestLock(guestID string) *sync.Mutex {
	lock, _ := s.guestLocks.LoadOrStore(guestID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *TaskService) notify(guestID, kind string, task *models.Task) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(guestID, &TaskEvent{Kind: kind, Task: task})
}
