package common

//
// logging.go
// Copyright (C) 2026 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

const (
	LogKeyUserName = "user_name"
	LogKeyUserID   = "user_id"
)

const (
	LogKeyAuthResult     = "auth_result"
	LogAuthResultSuccess = "success"
	LogAuthResultFailed  = "failed"
	LogAuthResultError   = "error"
)

const (
	LogKeyReqID = "req_id"
)
