package service

import (
	"go-store-orders/internal/model"
	"go-store-orders/internal/repository"
	"go-store-orders/internal/ws"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventPublisher receives audit entries after their transaction commits.
type EventPublisher interface {
	Publish(ev ws.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(ws.Event) {}

// auditor appends audit rows inside the caller's transaction and publishes them afterwards.
type auditor struct {
	repo repository.AuditRepository
	pub  EventPublisher
}

func newAuditor(repo repository.AuditRepository, pub EventPublisher) auditor {
	if pub == nil {
		pub = nopPublisher{}
	}
	return auditor{repo: repo, pub: pub}
}

func (a auditor) configLog(tx *gorm.DB, productName, action, details string) (*model.ProductConfigLog, error) {
	entry := &model.ProductConfigLog{ProductName: productName, ActionType: action, Details: details}
	if err := a.repo.AppendConfigLog(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (a auditor) inventoryLog(tx *gorm.DB, productID uint, change decimal.Decimal, note string) (*model.InventoryLog, error) {
	entry := &model.InventoryLog{ProductID: productID, ChangeQty: change, Note: note}
	if err := a.repo.AppendInventoryLog(tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (a auditor) publishConfig(entry *model.ProductConfigLog) {
	if entry == nil {
		return
	}
	a.pub.Publish(ws.Event{Type: entry.ActionType, Message: entry.Details, Data: entry})
}

func (a auditor) publishInventory(entry *model.InventoryLog, message string) {
	if entry == nil {
		return
	}
	a.pub.Publish(ws.Event{Type: EventRestock, Message: message, Data: entry})
}

// EventRestock tags inventory log entries on the live feed.
const EventRestock = "RESTOCK"
