package model

import "github.com/zeromicro/go-zero/core/stores/sqlx"

// ErrNotFound is an alias of sqlx.ErrNotFound.
var ErrNotFound = sqlx.ErrNotFound
