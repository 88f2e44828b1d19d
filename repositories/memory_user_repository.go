package repositories

import (
	"sync"

	"gorm.io/gorm"

	"qa-workflow-simulator/models"
)

// memoryUserRepository pairs with the memory session repository for
// database-less runs. It reuses gorm.ErrRecordNotFound so callers handle
// both implementations identically.
type memoryUserRepository struct {
	mu     sync.Mutex
	nextID uint
	users  []models.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{nextID: 1}
}

func (r *memoryUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
