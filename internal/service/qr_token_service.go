package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"bp-expo/backend/internal/dto"
	"bp-expo/backend/internal/model"
	"bp-expo/backend/internal/repository"
)

// ── QR 令牌模块业务错误 ──

var (
	ErrAnakNotFound     = errors.New("儿童不存在")
	ErrTutorNotFound    = errors.New("导师不存在")
	ErrInvalidValidDays = errors.New("有效天数必须大于 0")
	ErrNoActiveToken    = errors.New("没有可用的活动令牌")
)

// ── 令牌校验失败原因（结构化拒绝，非错误） ──

const (
	tokenMsgNotFound = "令牌不存在"
	tokenMsgInactive = "令牌已被吊销"
	tokenMsgExpired  = "令牌已过期"
	tokenMsgValid    = "令牌有效"
)

// QrTokenService QR 令牌业务接口
//
// 令牌是非一次性持有者凭证：有效期内可重复校验；同一主体允许同时存在多个
// 有效令牌（轮换不吊销旧令牌），"活动令牌"仅指展示用途下最新创建的那个，
// 校验始终按令牌串精确匹配
type QrTokenService interface {
	GenerateToken(ctx context.Context, req *dto.GenerateTokenRequest) (*dto.QrTokenResponse, error)
	GenerateTutorToken(ctx context.Context, req *dto.GenerateTutorTokenRequest) (*dto.QrTokenResponse, error)
	// GenerateBatchTokens 全成全败：任一儿童不存在或写入失败时整批回滚
	GenerateBatchTokens(ctx context.Context, req *dto.GenerateBatchTokensRequest) ([]dto.QrTokenResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*dto.ValidateTokenResponse, error)
	ValidateTutorToken(ctx context.Context, tokenString string) (*dto.ValidateTokenResponse, error)
	InvalidateToken(ctx context.Context, tokenString string) (*dto.InvalidateTokenResponse, error)
	GetActiveToken(ctx context.Context, subject model.Subject) (*dto.QrTokenResponse, error)
}

type qrTokenService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewQrTokenService 创建 QrTokenService 实例
func NewQrTokenService(repo *repository.Repository, logger *zap.Logger) QrTokenService {
	return &qrTokenService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── 生成 ──────────────────────

func (s *qrTokenService) GenerateToken(ctx context.Context, req *dto.GenerateTokenRequest) (*dto.QrTokenResponse, error) {
	if _, err := s.repo.Anak.GetByID(ctx, req.AnakID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnakNotFound
		}
		s.logger.Error("查询儿童失败", zap.String("anak_id", req.AnakID), zap.Error(err))
		return nil, err
	}

	token, err := s.buildToken(model.AnakSubject(req.AnakID), req.ValidDays)
	if err != nil {
		return nil, err
	}
	if err := s.repo.QrToken.Create(ctx, token); err != nil {
		s.logger.Error("写入 QR 令牌失败", zap.Error(err))
		return nil, err
	}

	return s.toTokenResponse(token), nil
}

func (s *qrTokenService) GenerateTutorToken(ctx context.Context, req *dto.GenerateTutorTokenRequest) (*dto.QrTokenResponse, error) {
	if _, err := s.repo.Tutor.GetByID(ctx, req.TutorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		s.logger.Error("查询导师失败", zap.String("tutor_id", req.TutorID), zap.Error(err))
		return nil, err
	}

	token, err := s.buildToken(model.TutorSubject(req.TutorID), req.ValidDays)
	if err != nil {
		return nil, err
	}
	if err := s.repo.QrToken.Create(ctx, token); err != nil {
		s.logger.Error("写入导师 QR 令牌失败", zap.Error(err))
		return nil, err
	}

	return s.toTokenResponse(token), nil
}

func (s *qrTokenService) GenerateBatchTokens(ctx context.Context, req *dto.GenerateBatchTokensRequest) ([]dto.QrTokenResponse, error) {
	// 全量存在性校验先行：任一儿童缺失则整批拒绝
	found, err := s.repo.Anak.ListByIDs(ctx, req.AnakIDs)
	if err != nil {
		s.logger.Error("批量查询儿童失败", zap.Error(err))
		return nil, err
	}
	if len(found) != len(uniqueIDs(req.AnakIDs)) {
		return nil, ErrAnakNotFound
	}

	tokens := make([]model.QrToken, 0, len(req.AnakIDs))
	for _, anakID := range uniqueIDs(req.AnakIDs) {
		token, err := s.buildToken(model.AnakSubject(anakID), req.ValidDays)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, *token)
	}

	// 单事务批量写入，全成全败
	if err := s.repo.QrToken.CreateBatch(ctx, tokens); err != nil {
		s.logger.Error("批量写入 QR 令牌失败", zap.Int("count", len(tokens)), zap.Error(err))
		return nil, err
	}

	result := make([]dto.QrTokenResponse, 0, len(tokens))
	for i := range tokens {
		result = append(result, *s.toTokenResponse(&tokens[i]))
	}
	return result, nil
}

// ────────────────────── 校验 ──────────────────────

func (s *qrTokenService) ValidateToken(ctx context.Context, tokenString string) (*dto.ValidateTokenResponse, error) {
	return s.validate(ctx, tokenString, model.SubjectAnak)
}

func (s *qrTokenService) ValidateTutorToken(ctx context.Context, tokenString string) (*dto.ValidateTokenResponse, error) {
	return s.validate(ctx, tokenString, model.SubjectTutor)
}

// validate 按令牌串精确匹配并检查类型/吊销/过期；失败原因逐项可区分
func (s *qrTokenService) validate(ctx context.Context, tokenString string, wantType model.SubjectType) (*dto.ValidateTokenResponse, error) {
	token, err := s.repo.QrToken.GetByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ValidateTokenResponse{Valid: false, Message: tokenMsgNotFound}, nil
		}
		s.logger.Error("查询 QR 令牌失败", zap.Error(err))
		return nil, err
	}

	// 类型不符视同不存在，不泄露另一类主体的令牌状态
	if token.Type != wantType {
		return &dto.ValidateTokenResponse{Valid: false, Message: tokenMsgNotFound}, nil
	}
	if !token.IsActive {
		return &dto.ValidateTokenResponse{Valid: false, Message: tokenMsgInactive}, nil
	}
	if token.IsExpired(s.now()) {
		return &dto.ValidateTokenResponse{Valid: false, Message: tokenMsgExpired}, nil
	}

	return &dto.ValidateTokenResponse{
		Valid:   true,
		Message: tokenMsgValid,
		Subject: subjectBriefOfToken(token),
		Token:   s.toTokenResponse(token),
	}, nil
}

// ────────────────────── 吊销 ──────────────────────

func (s *qrTokenService) InvalidateToken(ctx context.Context, tokenString string) (*dto.InvalidateTokenResponse, error) {
	affected, err := s.repo.QrToken.Deactivate(ctx, tokenString)
	if err != nil {
		s.logger.Error("吊销 QR 令牌失败", zap.Error(err))
		return nil, err
	}
	// affected=false：无可吊销令牌，幂等返回而非报错
	return &dto.InvalidateTokenResponse{Affected: affected}, nil
}

// ────────────────────── 活动令牌查询 ──────────────────────

func (s *qrTokenService) GetActiveToken(ctx context.Context, subject model.Subject) (*dto.QrTokenResponse, error) {
	token, err := s.repo.QrToken.GetActiveBySubject(ctx, subject, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveToken
		}
		s.logger.Error("查询活动令牌失败", zap.Error(err))
		return nil, err
	}
	return s.toTokenResponse(token), nil
}

// ── 内部辅助方法 ──

func (s *qrTokenService) buildToken(subject model.Subject, validDays *int) (*model.QrToken, error) {
	var validUntil *time.Time
	if validDays != nil {
		if *validDays <= 0 {
			return nil, ErrInvalidValidDays
		}
		t := s.now().AddDate(0, 0, *validDays)
		validUntil = &t
	}
	// validDays 为 nil → valid_until 为 NULL，令牌永不过期

	tokenString, err := generateTokenString()
	if err != nil {
		return nil, err
	}

	token := &model.QrToken{
		Type:       subject.Type,
		Token:      tokenString,
		ValidUntil: validUntil,
		IsActive:   true,
	}
	id := subject.ID
	switch subject.Type {
	case model.SubjectAnak:
		token.AnakID = &id
	case model.SubjectTutor:
		token.TutorID = &id
	}
	return token, nil
}

func (s *qrTokenService) toTokenResponse(token *model.QrToken) *dto.QrTokenResponse {
	resp := &dto.QrTokenResponse{
		ID:        token.QrTokenID,
		Type:      string(token.Type),
		SubjectID: token.Subject().ID,
		Token:     token.Token,
		IsActive:  token.IsActive,
		CreatedAt: token.CreatedAt.Format(time.RFC3339),
	}
	if token.ValidUntil != nil {
		v := token.ValidUntil.Format(time.RFC3339)
		resp.ValidUntil = &v
	}
	return resp
}

func subjectBriefOfToken(token *model.QrToken) *dto.SubjectBrief {
	brief := &dto.SubjectBrief{Type: string(token.Type), ID: token.Subject().ID}
	switch {
	case token.Anak != nil:
		brief.Name = token.Anak.FullName
	case token.Tutor != nil:
		brief.Name = token.Tutor.FullName
	}
	return brief
}

// generateTokenString 生成 64 位十六进制随机令牌串
func generateTokenString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("生成令牌随机串失败: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// uniqueIDs 去重并保持原序
func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}
