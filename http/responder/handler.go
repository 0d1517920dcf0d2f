package responder

func WithTraceID(id string) Option {
	return func(m *Meta) {
		m.TraceId = id
	}
}

func WithTook(ms int64) Option {
	return func(m *Meta) {
		m.Took = ms
	}
}

func NewMeta(opts ...Option) *Meta {
	meta := Meta{}
	for _, opt := range opts {
		opt(&meta)
	}
	return &meta
}
