package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventSource --dir ../usecase --output usecase --outpkg usecasemock --filename event_source_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name CommentaryGenerator --dir ../usecase --output usecase --outpkg usecasemock --filename commentary_generator_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PromptBuilder --dir ../usecase --output usecase --outpkg usecasemock --filename prompt_builder_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ShotMapRenderer --dir ../usecase --output usecase --outpkg usecasemock --filename shot_map_renderer_mock.go
