package errors

import "errors"

// ErrDuplicateAttendance 同一参与者在同一活动上已存在出勤记录
// 由存储层唯一约束或事务内预检触发，调用方应转换为 409 冲突响应
var ErrDuplicateAttendance = errors.New("出勤记录已存在")
