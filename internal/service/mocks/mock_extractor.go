package mocks

import "github.com/stretchr/testify/mock"

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Submit(docID, key string) {
	m.Called(docID, key)
}
