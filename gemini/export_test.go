package gemini

// TranslateError exposes translateError for tests.
var TranslateError = translateError
