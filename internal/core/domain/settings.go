package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderHuggingFace is the Hugging Face inference API.
	AIProviderHuggingFace AIProvider = "huggingface"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderHuggingFace:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderHuggingFace
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderHuggingFace:
		return "Hugging Face (inference API)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama, or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI and Hugging Face).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama, or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI and Hugging Face).
	APIKey string
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RAG configuration defaults.
const (
	DefaultTopK          = 5
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 200
	DefaultLookbackDays  = 7
	DefaultContextBudget = 8000
	DefaultMaxTokens     = 512
)

// DefaultPromptTemplate instructs the model to answer only from the supplied
// context and to say so when the context has nothing relevant.
const DefaultPromptTemplate = `You are an assistant that answers questions about recorded meetings.
Answer only from the context below. If the context does not contain the
information, say so honestly instead of guessing.

Context:
{context}

Question: {question}

Answer:`

// RAGSettings holds retrieval and answer synthesis configuration.
// It is constructed once at startup and passed by reference into the
// services; pipeline logic never reads ambient state.
type RAGSettings struct {
	// TopK is the number of highest-similarity candidates retrieved per
	// query.
	TopK int

	// ChunkSize is the target chunk size in characters.
	ChunkSize int

	// ChunkOverlap is the number of trailing characters of a chunk
	// repeated at the start of the next.
	ChunkOverlap int

	// LookbackDays is the default date window applied when a question
	// carries no explicit date range. The 7-day default is a deliberate
	// product policy, kept configurable because it materially changes
	// recall.
	LookbackDays int

	// ContextBudget caps the assembled context size in characters so the
	// prompt never exceeds the generation provider's limit.
	ContextBudget int

	// MaxTokens caps the generated completion length.
	MaxTokens int

	// Temperature is the sampling temperature (0 = deterministic).
	Temperature float64

	// PromptTemplate is the answer prompt with {context} and {question}
	// placeholders.
	PromptTemplate string
}

// Validate checks RAG settings invariants.
func (r RAGSettings) Validate() error {
	if r.TopK <= 0 || r.ChunkSize <= 0 || r.ContextBudget <= 0 {
		return ErrInvalidInput
	}
	if r.ChunkOverlap < 0 || r.ChunkOverlap >= r.ChunkSize {
		return ErrInvalidInput
	}
	if r.LookbackDays < 0 {
		return ErrInvalidInput
	}
	return nil
}
