package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sijms/go-ora/v2/network"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &network.OracleError{ErrCode: 1, ErrMsg: "ORA-00001: unique constraint violated"})))
	assert.False(t, isUniqueViolation(&network.OracleError{ErrCode: 2291, ErrMsg: "ORA-02291: integrity constraint violated"}))
	assert.True(t, isUniqueViolation(errors.New("ORA-00001: unique constraint (SB.UK_STUDY_HISTORY) violated")))
	assert.False(t, isUniqueViolation(nil))
}

func TestNullHelpers(t *testing.T) {
	assert.False(t, nullString("").Valid)
	assert.Equal(t, "бал", nullString("бал").String)

	assert.False(t, nullTime(nil).Valid)
	assert.False(t, nullTime(&time.Time{}).Valid)
	now := time.Now()
	assert.True(t, nullTime(&now).Valid)
}
