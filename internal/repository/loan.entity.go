package repository

import (
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/pkg/date"
)

type LoanEntity struct {
	ID     int64     `db:"id"     gorm:"primaryKey;autoIncrement:false;column:id"`
	Date   date.Date `db:"date"   gorm:"column:date;type:text;not null"`
	Name   string    `db:"name"   gorm:"column:name;not null"`
	Amount float64   `db:"amount" gorm:"column:amount;not null"`
	Ref    *string   `db:"ref"    gorm:"column:ref"`
}

func (LoanEntity) TableName() string {
	return "loans"
}

func toLoanEntity(m *model.Loan) *LoanEntity {
	if m == nil {
		return nil
	}
	e := &LoanEntity{
		ID:     m.ID,
		Date:   m.Date,
		Name:   m.Name,
		Amount: m.Amount,
	}
	if m.Ref != "" {
		ref := m.Ref
		e.Ref = &ref
	}
	return e
}

func toLoanModel(e *LoanEntity) *model.Loan {
	if e == nil {
		return nil
	}
	m := &model.Loan{
		ID:     e.ID,
		Date:   e.Date,
		Name:   e.Name,
		Amount: e.Amount,
	}
	if e.Ref != nil {
		m.Ref = *e.Ref
	}
	return m
}

func toLoanModels(entities []*LoanEntity) []model.Loan {
	if entities == nil {
		return nil
	}
	models := make([]model.Loan, len(entities))
	for i, e := range entities {
		models[i] = *toLoanModel(e)
	}
	return models
}
