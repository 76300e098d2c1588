package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPageSource struct {
	mock.Mock
}

func (m *MockPageSource) PageTexts(ctx context.Context, data []byte, maxPages int) ([]string, error) {
	args := m.Called(ctx, data, maxPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
