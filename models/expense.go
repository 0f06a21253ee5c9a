// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package models

import "time"

type Expense struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	SpentDate time.Time `json:"spent_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Expense) EntityID() int64        { return e.ID }
func (e Expense) EntityKind() EntityKind { return KindExpense }

// ExpenseDraft is the payload for creating an expense.
type ExpenseDraft struct {
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	SpentDate time.Time `json:"spent_date"`
}
