package documents

import "go.uber.org/fx"

var Module = fx.Module("documents",
	fx.Provide(
		NewDocumentsConfig,
		NewExtractor,
		NewFetcher,
	),
)
