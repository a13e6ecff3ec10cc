package models

import (
	"errors"
	"time"

	errs "Disastrous/pkg/errors"

	"gorm.io/gorm"
)

const (
	SOSStatusPending = "pending"
	SOSStatusHandled = "handled"
	SOSStatusClosed  = "closed"
)

// 紧急呼叫的规范标识：来自 112 专线且署名 Emergency SOS 的请求按紧急处理
const (
	EmergencyContact    = "112"
	EmergencySenderName = "Emergency SOS"
)

var (
	ErrSOSNotFound      = errs.WithCode(errs.CodeNotFound, "sos request not found")
	ErrInvalidSOSStatus = errs.WithCode(errs.CodeInvalid, "invalid sos status")
)

// 市民提交的求助请求
type SOSRequest struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
	SenderName string    `json:"senderName" gorm:"size:256"`
	Contact    string    `json:"contact" gorm:"size:128"`
	Message    string    `json:"message" gorm:"type:text"`
	Location   string    `json:"location" gorm:"size:512"` // 可选，自由文本
	Status     string    `json:"status" gorm:"size:32"`    // pending / handled / closed
}

// IsEmergency 是否命中紧急呼叫模式
func (r *SOSRequest) IsEmergency() bool {
	return r.Contact == EmergencyContact && r.SenderName == EmergencySenderName
}

func ValidSOSStatus(status string) bool {
	switch status {
	case SOSStatusPending, SOSStatusHandled, SOSStatusClosed:
		return true
	}
	return false
}

// CreateSOSRequest 入库一条求助请求，状态固定为 pending
func CreateSOSRequest(db *gorm.DB, senderName, contact, message, location string) (*SOSRequest, error) {
	req := &SOSRequest{
		SenderName: senderName,
		Contact:    contact,
		Message:    message,
		Location:   location,
		Status:     SOSStatusPending,
	}
	if err := db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// ListRecentSOSRequests 最近 n 条，新的在前
func ListRecentSOSRequests(db *gorm.DB, n int) ([]SOSRequest, error) {
	var reqs []SOSRequest
	if err := db.Order("id DESC").Limit(n).Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// ListAllSOSRequests 全部记录，新的在前（救援人员面板）
func ListAllSOSRequests(db *gorm.DB) ([]SOSRequest, error) {
	var reqs []SOSRequest
	if err := db.Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

// UpdateSOSStatus 更新状态。状态非法返回 ErrInvalidSOSStatus（记录不动），
// id 不存在返回 ErrSOSNotFound。状态间转换不受限制。
func UpdateSOSStatus(db *gorm.DB, id uint, status string) (*SOSRequest, error) {
	if !ValidSOSStatus(status) {
		return nil, ErrInvalidSOSStatus
	}
	var req SOSRequest
	if err := db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSOSNotFound
		}
		return nil, err
	}
	req.Status = status
	if err := db.Save(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}
