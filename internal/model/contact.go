package model

import (
	"strings"
	"time"
)

type ContactStatus string

const (
	ContactStatusInactive     ContactStatus = "INACTIVE"
	ContactStatusActive       ContactStatus = "ACTIVE"
	ContactStatusResponded    ContactStatus = "RESPONDED"
	ContactStatusDoNotDisturb ContactStatus = "DO_NOT_DISTURB"
	ContactStatusRemoved      ContactStatus = "REMOVED"
)

var contactStatuses = map[ContactStatus]struct{}{
	ContactStatusInactive:     {},
	ContactStatusActive:       {},
	ContactStatusResponded:    {},
	ContactStatusDoNotDisturb: {},
	ContactStatusRemoved:      {},
}

func (s ContactStatus) Valid() bool {
	_, ok := contactStatuses[s]
	return ok
}

type Contact struct {
	ID                int64         `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	Name              string        `gorm:"column:name"`
	Phone             string        `gorm:"column:phone;size:20;not null;uniqueIndex:idx_contacts_phone"`
	Email             string        `gorm:"column:email"`
	Status            ContactStatus `gorm:"column:status;size:20;not null;index:idx_contacts_status"`
	Tags              string        `gorm:"column:tags"`
	ExternalID        *string       `gorm:"column:external_id;size:64;index:idx_contacts_external_id"`
	LastInteractionAt *time.Time    `gorm:"column:last_interaction_at"`
	CreatedAt         time.Time     `gorm:"column:created_at;<-:create"`
	UpdatedAt         time.Time     `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) TagList() []string {
	if c.Tags == "" {
		return []string{}
	}
	return strings.Split(c.Tags, ",")
}

func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return strings.Join(cleaned, ",")
}
