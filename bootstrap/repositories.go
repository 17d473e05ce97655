package bootstrap

import (
	"go_upload_broker/platform/database"
	"go_upload_broker/repository"
)

type Repositories struct {
	FileRepository repository.FileRepository
}

func NewRepositories(db *database.DB) *Repositories {
	sqlDB := db.GetDatabase()
	return &Repositories{
		FileRepository: repository.NewFileRepository(sqlDB),
	}
}
