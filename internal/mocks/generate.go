// Package mocks holds gomock-generated doubles for the repository
// interfaces in internal/core. Regenerate after changing an interface:
//
//	go generate ./internal/mocks
//
// Tests drive them through the usual gomock controller:
//
//	ctrl := gomock.NewController(t)
//	repo := mocks.NewMockDocumentRepository(ctrl)
//	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(doc, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=account_repository_mock.go github.com/samprabha/portal/internal/core AccountRepository

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=document_repository_mock.go github.com/samprabha/portal/internal/core DocumentRepository
