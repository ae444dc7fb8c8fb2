package document

import "context"

//go:generate mockery --name=Repository --dir=. --output=./mocks --filename=document_repository_mock.go --case=underscore --with-expecter

type Repository interface {
	Create(ctx context.Context, doc *Document) error
	Get(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, offset, limit int) ([]Document, error)
	Update(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
