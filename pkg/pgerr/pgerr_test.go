package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	exclusion := fmt.Errorf("insert: %w", &pq.Error{Code: CodeExclusionViolation})
	unique := &pq.Error{Code: CodeUniqueViolation}
	serialization := fmt.Errorf("commit: %w", &pq.Error{Code: CodeSerializationFailure})
	deadlock := &pq.Error{Code: CodeDeadlockDetected}

	assert.True(t, IsExclusionViolation(exclusion))
	assert.False(t, IsExclusionViolation(unique))
	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsSerializationFailure(serialization))
	assert.True(t, IsSerializationFailure(deadlock))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
	assert.Equal(t, "", Code(nil))
}
