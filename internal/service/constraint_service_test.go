package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-adp-api/internal/dto"
	"github.com/noah-isme/uni-adp-api/internal/models"
	appErrors "github.com/noah-isme/uni-adp-api/pkg/errors"
)

type stubConstraintRepo struct {
	all       []models.Constraint
	scoped    []models.Constraint
	created   *models.Constraint
	createErr error
	deleted   []string
}

func (r *stubConstraintRepo) List(ctx context.Context) ([]models.Constraint, error) {
	return r.all, nil
}

func (r *stubConstraintRepo) ListForDepartment(ctx context.Context, departmentID string) ([]models.Constraint, error) {
	return r.scoped, nil
}

func (r *stubConstraintRepo) Create(ctx context.Context, constraint *models.Constraint) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = constraint
	return nil
}

func (r *stubConstraintRepo) Delete(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func TestConstraintServiceListScopesByDepartment(t *testing.T) {
	repo := &stubConstraintRepo{
		all:    []models.Constraint{{ID: "c1"}, {ID: "c2"}},
		scoped: []models.Constraint{{ID: "c1"}},
	}
	svc := NewConstraintService(repo, nil)

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.List(context.Background(), "dept-1")
	require.NoError(t, err)
	assert.Len(t, scoped, 1)
}

func TestConstraintServiceCreate(t *testing.T) {
	repo := &stubConstraintRepo{}
	svc := NewConstraintService(repo, nil)

	created, err := svc.Create(context.Background(), dto.CreateConstraintRequest{
		DepartmentID: " dept-1 ",
		StaffRole:    "professor",
		SubjectType:  "both",
		MaxSubjects:  4,
		MaxHours:     16,
	}, "admin-1")
	require.NoError(t, err)

	require.NotNil(t, repo.created)
	assert.Equal(t, models.StaffRole("professor"), created.Role)
	require.NotNil(t, created.DepartmentID)
	assert.Equal(t, "dept-1", *created.DepartmentID)
	assert.Equal(t, "admin-1", created.CreatedBy)
}

func TestConstraintServiceCreateGlobalWhenDepartmentEmpty(t *testing.T) {
	repo := &stubConstraintRepo{}
	svc := NewConstraintService(repo, nil)

	created, err := svc.Create(context.Background(), dto.CreateConstraintRequest{
		StaffRole:   "hod",
		SubjectType: "theory",
		MaxSubjects: 2,
		MaxHours:    8,
	}, "admin-1")
	require.NoError(t, err)
	assert.Nil(t, created.DepartmentID)
}

func TestConstraintServiceCreateRejectsInvalidRole(t *testing.T) {
	svc := NewConstraintService(&stubConstraintRepo{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateConstraintRequest{
		StaffRole:   "dean",
		SubjectType: "both",
		MaxSubjects: 4,
		MaxHours:    16,
	}, "admin-1")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestConstraintServiceCreateWrapsRepoFailure(t *testing.T) {
	repo := &stubConstraintRepo{createErr: errors.New("insert failed")}
	svc := NewConstraintService(repo, nil)

	_, err := svc.Create(context.Background(), dto.CreateConstraintRequest{
		StaffRole:   "professor",
		SubjectType: "lab",
		MaxSubjects: 3,
		MaxHours:    12,
	}, "admin-1")
	require.Error(t, err)
	assert.Equal(t, "CONSTRAINT_CREATE_FAILED", appErrors.FromError(err).Code)
}

func TestConstraintServiceDelete(t *testing.T) {
	repo := &stubConstraintRepo{}
	svc := NewConstraintService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Equal(t, []string{"c1"}, repo.deleted)
}
