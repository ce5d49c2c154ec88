package repository

import (
	"ai_academy_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func withAnswers(db *gorm.DB) *gorm.DB {
	return db.Preload("Answers", byOrder)
}

func (r *QuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	var questions []model.Question
	err := byOrder(withAnswers(r.DB.WithContext(ctx))).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) ListByModule(ctx context.Context, moduleID uint) ([]model.Question, error) {
	var questions []model.Question
	err := byOrder(withAnswers(r.DB.WithContext(ctx))).
		Where("module_id = ?", moduleID).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := withAnswers(r.DB.WithContext(ctx)).First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(r.DB.WithContext(ctx), &model.Question{}, "id = ?", id)
}

// Create 题目与其答案在同一事务中写入
func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := question.Answers
		question.Answers = nil
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].QuestionID = question.ID
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		question.Answers = answers
		return nil
	})
}

func (r *QuestionRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Updates(fields).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Question{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// List questionID 为 0 时返回全部答案
func (r *AnswerRepository) List(ctx context.Context, questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	query := r.DB.WithContext(ctx)
	if questionID != 0 {
		query = query.Where("question_id = ?", questionID)
	}
	err := byOrder(query).Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) FindByID(ctx context.Context, id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.WithContext(ctx).First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *AnswerRepository) Create(ctx context.Context, answer *model.Answer) error {
	return r.DB.WithContext(ctx).Create(answer).Error
}

func (r *AnswerRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).Model(&model.Answer{}).Where("id = ?", id).Updates(fields).Error
}

func (r *AnswerRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Answer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
