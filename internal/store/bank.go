package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ascendprep/ascend/internal/question"
)

const colQuestions = "questions"

// BankRepo stores the question bank, keyed by question identifier.
type BankRepo struct {
	ds DocStore
}

func NewBankRepo(ds DocStore) *BankRepo {
	return &BankRepo{ds: ds}
}

// SaveBank writes a validated question bank, replacing documents item by
// item. Large banks are chunked so no transaction exceeds the store's
// write capacity.
func (r *BankRepo) SaveBank(ctx context.Context, questions []question.Question) error {
	for start := 0; start < len(questions); start += MaxWritesPerTxn {
		end := start + MaxWritesPerTxn
		if end > len(questions) {
			end = len(questions)
		}
		chunk := questions[start:end]
		err := r.ds.RunInTransaction(ctx, func(tx Txn) error {
			for i := range chunk {
				if err := tx.Set(colQuestions, chunk[i].ID, &chunk[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("save bank chunk %d..%d: %w", start, end, err)
		}
	}
	return nil
}

// LoadBank returns every stored question, including answer keys. Callers
// serving learners must strip to views before returning anything.
func (r *BankRepo) LoadBank(ctx context.Context) ([]question.Question, error) {
	docs, err := r.ds.List(ctx, colQuestions, "")
	if err != nil {
		return nil, err
	}
	out := make([]question.Question, 0, len(docs))
	for _, doc := range docs {
		var q question.Question
		if err := json.Unmarshal(doc.Data, &q); err != nil {
			return nil, fmt.Errorf("decode question %s: %w", doc.Key, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// Question returns one question by identifier.
func (r *BankRepo) Question(ctx context.Context, id string) (question.Question, error) {
	var q question.Question
	err := r.ds.Get(ctx, colQuestions, id, &q)
	return q, err
}
