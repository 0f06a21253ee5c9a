// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The ilkapp Authors

package models

import "time"

type Project struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Project) EntityID() int64        { return p.ID }
func (p Project) EntityKind() EntityKind { return KindProject }

type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Company) EntityID() int64        { return c.ID }
func (c Company) EntityKind() EntityKind { return KindCompany }
