package config

import "testing"

func validRecommender() RecommenderConfig {
	return RecommenderConfig{
		InterestIncrement:       0.2,
		MaxInterestScore:        5.0,
		RecommendationThreshold: 0.5,
		StalenessDays:           90,
		InactivityDays:          180,
		ViewDedupHours:          24,
		StoreTimeoutMs:          500,
	}
}

func TestRecommenderConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*RecommenderConfig)
		wantErr bool
	}{
		{"默认值合法", func(c *RecommenderConfig) {}, false},
		{"增量为零", func(c *RecommenderConfig) { c.InterestIncrement = 0 }, true},
		{"上限为负", func(c *RecommenderConfig) { c.MaxInterestScore = -1 }, true},
		{"阈值为负", func(c *RecommenderConfig) { c.RecommendationThreshold = -0.1 }, true},
		{"阈值超过上限", func(c *RecommenderConfig) { c.RecommendationThreshold = 6.0 }, true},
		{"阈值等于上限", func(c *RecommenderConfig) { c.RecommendationThreshold = c.MaxInterestScore }, false},
		{"过期天数为零", func(c *RecommenderConfig) { c.StalenessDays = 0 }, true},
		{"不活跃天数为零", func(c *RecommenderConfig) { c.InactivityDays = 0 }, true},
		{"去重窗口为零", func(c *RecommenderConfig) { c.ViewDedupHours = 0 }, true},
		{"写超时为零", func(c *RecommenderConfig) { c.StoreTimeoutMs = 0 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validRecommender()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
