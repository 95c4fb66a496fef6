package oidc

// Option configures a PrincipalFactory.
type Option func(*PrincipalFactory)

// WithConfig sets the claim types. Empty fields fall back to defaults.
func WithConfig(cfg Config) Option {
	return func(f *PrincipalFactory) {
		f.config = cfg.withDefaults()
	}
}

// WithLogger sets the logger used when no provider supplies one.
func WithLogger(logger Logger) Option {
	return func(f *PrincipalFactory) {
		f.logger = logger
	}
}

// WithLoggerProvider sets a provider used to resolve named loggers.
func WithLoggerProvider(provider LoggerProvider) Option {
	return func(f *PrincipalFactory) {
		f.loggerProvider = provider
	}
}

// WithTokenDecoder replaces the default JWTDecoder.
func WithTokenDecoder(decoder TokenDecoder) Option {
	return func(f *PrincipalFactory) {
		f.decoder = decoder
	}
}

// WithClaimsExtender appends extenders in registration order. Nil entries are ignored.
func WithClaimsExtender(extenders ...ClaimsExtender) Option {
	return func(f *PrincipalFactory) {
		for _, ext := range extenders {
			if ext != nil {
				f.extenders = append(f.extenders, ext)
			}
		}
	}
}

// WithPostProcessor appends post-processors in registration order. Nil entries are ignored.
func WithPostProcessor(processors ...PostProcessor) Option {
	return func(f *PrincipalFactory) {
		for _, p := range processors {
			if p != nil {
				f.postProcessors = append(f.postProcessors, p)
			}
		}
	}
}

// WithIDGenerator overrides the sign-in correlation id generator.
func WithIDGenerator(gen func() string) Option {
	return func(f *PrincipalFactory) {
		if gen != nil {
			f.newID = gen
		}
	}
}
