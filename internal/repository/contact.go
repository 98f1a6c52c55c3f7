package repository

import (
	"context"
	"errors"

	"github.com/Behyna/whatsapp-relay/internal/model"
	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("CONTACT_NOT_FOUND")
var ErrDuplicatePhone = errors.New("DUPLICATE_PHONE")

type ContactFilter struct {
	Status  *model.ContactStatus
	Exclude []model.ContactStatus
}

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Save(ctx context.Context, contact *model.Contact) error
	GetByPhone(ctx context.Context, phone string) (*model.Contact, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.Contact, error)
	List(ctx context.Context, filter ContactFilter) ([]model.Contact, error)
	DeleteByPhone(ctx context.Context, phone string) (int64, error)
}

type Contact struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &Contact{db: db}
}

func (c *Contact) Create(ctx context.Context, contact *model.Contact) error {
	err := GetTx(ctx, c.db).Create(contact).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePhone
	}
	return err
}

func (c *Contact) Save(ctx context.Context, contact *model.Contact) error {
	err := GetTx(ctx, c.db).Save(contact).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePhone
	}
	return err
}

func (c *Contact) GetByPhone(ctx context.Context, phone string) (*model.Contact, error) {
	return c.first(ctx, "phone = ?", phone)
}

func (c *Contact) GetByExternalID(ctx context.Context, externalID string) (*model.Contact, error) {
	return c.first(ctx, "external_id = ?", externalID)
}

func (c *Contact) List(ctx context.Context, filter ContactFilter) ([]model.Contact, error) {
	var contacts []model.Contact

	query := GetTx(ctx, c.db).Model(&model.Contact{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if len(filter.Exclude) > 0 {
		query = query.Where("status NOT IN ?", filter.Exclude)
	}

	if err := query.Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, err
	}

	return contacts, nil
}

func (c *Contact) DeleteByPhone(ctx context.Context, phone string) (int64, error) {
	result := GetTx(ctx, c.db).Where("phone = ?", phone).Delete(&model.Contact{})
	return result.RowsAffected, result.Error
}

func (c *Contact) first(ctx context.Context, query string, arg any) (*model.Contact, error) {
	var contact model.Contact

	err := GetTx(ctx, c.db).Where(query, arg).First(&contact).Error
	if err == nil {
		return &contact, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}

	return nil, err
}
