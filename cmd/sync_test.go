package cmd

import (
	"testing"
	"time"

	"rules-service/core/dataset"
	"rules-service/core/scheduler"

	"github.com/stretchr/testify/assert"
)

func TestJobConfig(t *testing.T) {
	cfg := scheduler.Config{
		Rules:         scheduler.JobConfig{Interval: time.Minute},
		ValueSets:     scheduler.JobConfig{Interval: 2 * time.Minute},
		CountryList:   scheduler.JobConfig{Interval: 3 * time.Minute},
		DomesticRules: scheduler.JobConfig{Interval: 4 * time.Minute},
	}

	assert.Equal(t, time.Minute, jobConfig(cfg, dataset.KindRules).Interval)
	assert.Equal(t, 2*time.Minute, jobConfig(cfg, dataset.KindValueSets).Interval)
	assert.Equal(t, 3*time.Minute, jobConfig(cfg, dataset.KindCountryList).Interval)
	assert.Equal(t, 4*time.Minute, jobConfig(cfg, dataset.KindDomesticRules).Interval)
}

func TestSchemaTablesCoverEveryModel(t *testing.T) {
	names := map[string]bool{}
	for _, tbl := range schemaTables() {
		names[tbl.Name] = true
	}
	for _, want := range []string{"business_rules", "valuesets", "signed_list", "country_list", "shedlock"} {
		assert.True(t, names[want], want)
	}
}
