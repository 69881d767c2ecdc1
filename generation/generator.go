package generation

import "github.com/jonwraymond/storycache/story"

var (
	_ story.Generator = (*OpenAIGenerator)(nil)
	_ story.Generator = (*MockGenerator)(nil)
)
