package bootstrap

import "go_upload_broker/handlers"

type Handlers struct {
	FileHandler *handlers.FileHandler
}

func NewHandlers(services *Services) *Handlers {
	res := &Handlers{}
	res.FileHandler = handlers.NewFileHandler(services.UploadService, services.DownloadService)
	return res
}
