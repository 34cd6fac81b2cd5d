//
// users.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

package model

import "time"

// User is the authenticated principal. Password holds the bcrypt hash,
// never the plain value.
type User struct {
	ID        int64     `db:"id"        json:"id"`
	Username  string    `db:"username"  json:"username"`
	Password  string    `db:"password"  json:"-"`
	Email     string    `db:"email"     json:"email,omitempty"`
	Name      string    `db:"name"      json:"name,omitempty"`
	Active    bool      `db:"active"    json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
