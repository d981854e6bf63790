package mcp

import (
	"fmt"
	"strings"
)

// Research prompt templates keyed by category. Each template steers the
// upstream toward programming-focused answers with runnable code.
var researchPrompts = map[string]string{
	"api": `Research "%s" API/SDK documentation and usage.

Provide a comprehensive guide including:
1. **Quick Start**: Minimal working code example with all necessary imports
2. **Authentication & Setup**: How to configure, initialize, and authenticate
3. **Key Endpoints/Methods**: Most common operations with complete code examples
4. **Request/Response Examples**: Show actual payloads and data structures
5. **Error Handling**: Common errors, status codes, and how to handle them gracefully
6. **Rate Limits & Best Practices**: Usage constraints and optimization tips
7. **Version Info**: Current stable version, breaking changes, and compatibility notes

Include complete, runnable code examples with proper imports and error handling.`,

	"library": `Research "%s" library/framework for software development.

Provide a comprehensive guide including:
1. **Installation & Setup**: Package manager commands, dependencies, and configuration
2. **Core Concepts**: Key abstractions, data structures, and design patterns used
3. **Quick Start Example**: Minimal working code demonstrating basic usage
4. **Common Use Cases**: Typical scenarios with complete code examples
5. **Configuration Options**: Important settings, defaults, and customization
6. **Integration Patterns**: How to integrate with other common tools/frameworks
7. **Version Compatibility**: Supported versions, migration guides, and deprecations

All code examples should be complete and runnable.`,

	"implementation": `Research how to implement "%s" in software development.

Provide step-by-step implementation guidance:
1. **Architecture Overview**: High-level design and component interactions
2. **Prerequisites**: Required knowledge, dependencies, and setup
3. **Step-by-Step Implementation**: Data models, core logic, error handling, testing
4. **Complete Code Example**: Full working implementation with comments
5. **Common Pitfalls**: Mistakes to avoid and debugging tips
6. **Security Considerations**: Relevant security best practices
7. **Production Readiness**: Logging, monitoring, and deployment considerations

Provide complete, production-quality code examples with proper error handling and types.`,

	"debugging": `Research debugging approaches for "%s" issues in software development.

Provide systematic debugging guidance:
1. **Common Causes**: Most frequent reasons for this issue
2. **Diagnostic Steps**: Logging, tracing, debugging tools, key indicators
3. **Solution Patterns**: Fixes for each common cause with code examples
4. **Prevention Strategies**: How to avoid this issue in the future
5. **Related Issues**: Similar problems that may have the same symptoms
6. **Tool Recommendations**: Debuggers, profilers, and monitoring tools

Include code snippets showing both problematic patterns and their fixes.`,

	"comparison": `Research and compare options for "%s" in software development.

Provide an objective technical comparison:
1. **Options Overview**: Brief description of each alternative
2. **Feature Comparison**: Key capabilities side-by-side
3. **Performance**: Speed, memory, scalability metrics (with sources)
4. **Code Comparison**: Same task implemented in each option
5. **Pros and Cons**: Strengths and weaknesses of each
6. **Use Case Recommendations**: When to choose each option
7. **Community & Ecosystem**: Popularity, maintenance status, documentation quality

Include specific version numbers and benchmark data with citations.`,

	"ml_architecture": `Research "%s" neural network architecture in machine learning/deep learning.

Provide a rigorous yet accessible explanation with mathematical foundations:
1. **Formal Definition**: Precise mathematical definition in LaTeX notation with all variables and dimensions defined
2. **Intuition & Motivation**: What problem it solves, how data flows through it, evolution from prior architectures
3. **Mathematical Formulation**: Forward pass equations with derivations, tensor dimensions, Big-O complexity
4. **Architecture Components**: Layer-by-layer breakdown with shapes, activations, normalization and regularization
5. **Code Implementation**: Complete runnable PyTorch implementation with example usage and correct tensor shapes
6. **Training Considerations**: Loss functions, initialization strategies (Xavier, He), typical hyperparameter ranges
7. **Practical Exercises**: Implement a simplified version from scratch, then modify it for a specific use case
8. **Key Papers & References**: Original paper with arXiv link, variants, benchmark results

Use proper mathematical notation throughout. All equations should be in LaTeX format.`,

	"ml_training": `Research "%s" training procedure/optimization in machine learning/deep learning.

Provide a mathematically rigorous explanation of the training algorithm:
1. **Formal Definition**: Optimization objective, loss function and gradient in LaTeX
2. **Algorithm Derivation**: Step-by-step derivation of the update rule from first principles
3. **Update Rules**: Parameter update equations, auxiliary variables (momentum, adaptive rates), bias correction
4. **Convergence Analysis**: Guarantees for convex/non-convex settings, learning rate requirements
5. **Pseudocode & Implementation**: Complete pseudocode plus PyTorch built-in and from-scratch versions
6. **Hyperparameter Guidance**: Learning rate ranges and schedules, momentum/beta defaults, batch size effects
7. **Practical Considerations**: Gradient clipping, warmup and decay, expected gradient magnitudes
8. **Exercises**: Derive a gradient by hand, implement the optimizer and verify against PyTorch
9. **References**: Original paper, key variants, empirical comparisons

All mathematical derivations should be complete and verifiable.`,

	"ml_concepts": `Research "%s" concept in machine learning/deep learning.

Provide a comprehensive explanation with theoretical foundations:
1. **Formal Definition**: Rigorous mathematical definition with all symbols defined, in LaTeX
2. **Intuitive Explanation**: Plain-language explanation, analogies, why it matters in practice
3. **Mathematical Framework**: Assumptions, key theorems with proof sketches
4. **Relationship to Other Concepts**: Prerequisites and downstream applications
5. **Detection & Measurement**: Metrics, diagnostic tools, visual indicators like learning curves
6. **Practical Solutions**: Techniques to address or leverage the concept, with code and trade-offs
7. **Code Demonstration**: Complete Python example with visualization and before/after comparison
8. **Common Misconceptions**: Frequently misunderstood aspects, edge cases and exceptions
9. **Exercises**: One theoretical proof/derivation, one practical implementation, one result analysis
10. **Further Reading**: Seminal papers, textbook chapters, open research questions

Emphasize both mathematical rigor and practical applicability.`,

	"ml_frameworks": `Research "%s" in the context of ML/DL frameworks (PyTorch, TensorFlow, JAX, etc.).

Provide framework-specific guidance with implementation details:
1. **Concept Overview**: What it does, which frameworks support it, naming differences
2. **API Reference**: Signatures, parameter types and defaults, return types and shapes
3. **Under the Hood**: Internal implementation, computational graph implications, memory/performance traits
4. **Basic Usage**: Minimal working example with imports and expected tensor shapes
5. **Advanced Patterns**: Custom extensions, training loop integration, multi-GPU/distributed use
6. **Framework Comparison**: PyTorch, TensorFlow/Keras, and JAX/Flax versions with API gotchas
7. **Performance Optimization**: Efficient patterns, common pitfalls, profiling approach
8. **Debugging Guide**: Common errors, shape mismatch debugging, gradient flow verification
9. **Complete Example**: Full pipeline with data loading, model definition, training, checkpointing
10. **Best Practices**: Official recommendations, community conventions, version compatibility

All code should be complete, runnable, and follow framework conventions.`,

	"ml_math": `Research "%s" mathematical foundations for machine learning.

Provide a rigorous mathematical treatment suitable for ML practitioners:
1. **Formal Definition**: Precise definition with notation explained, domain/range, prerequisites
2. **Intuitive Understanding**: Geometric interpretation, connections to familiar concepts
3. **Key Theorems & Properties**: Statements in LaTeX with proofs or proof sketches and conditions
4. **Derivations**: Step-by-step derivations with all algebraic steps shown
5. **Computational Methods**: Algorithms, numerical stability, efficient implementations
6. **Applications in ML**: Which algorithms use this, how the math translates to code
7. **NumPy/PyTorch Implementation**: From-first-principles implementation verified against built-ins
8. **Worked Examples**: Numerical examples solved by hand with code verification
9. **Exercises**: One proof, one hand calculation verified in code, one ML application
10. **References**: Textbooks (Bishop, Murphy, Goodfellow), lecture notes, foundational papers

All equations must be in proper LaTeX notation. Show complete derivations.`,

	"ml_paper": `Research "%s" machine learning paper/research contribution.

Provide a comprehensive paper analysis and implementation guide:
1. **Paper Overview**: Full citation, arXiv link, official code repository, one-paragraph summary
2. **Problem Statement**: The problem addressed, prior approaches and their limitations
3. **Key Contributions**: Main contributions, novel techniques, theoretical vs empirical
4. **Method/Architecture**: Detailed explanation with mathematical formulation
5. **Key Equations**: Most important equations with every term explained
6. **Implementation Details**: Hyperparameters, training procedure, data preprocessing
7. **Reproduction Code**: Minimal PyTorch implementation of the key idea
8. **Experimental Results**: Main benchmarks, baseline comparisons, ablation insights
9. **Critical Analysis**: Strengths, limitations, assumptions that may not hold
10. **Impact & Follow-ups**: Influence, important follow-up works, current state of the art
11. **Study Questions**: Questions and implementation challenges to test understanding

Provide enough detail that someone could implement the key ideas from your summary.`,

	"ml_debugging": `Research "%s" debugging issue in machine learning/deep learning.

Provide systematic debugging guidance with mathematical insights:
1. **Problem Description**: How it manifests in training and the mathematical reason why
2. **Root Causes**: Common causes with reasoning and relative likelihood
3. **Diagnostic Process**: Step-by-step procedure, what to check first, values to look for
4. **Detection Code**: Python detection functions, gradient checking utilities, visualization
5. **Mathematical Analysis**: Formal analysis of when and why the issue occurs
6. **Solutions & Fixes**: Specific fix per root cause with code and hyperparameter changes
7. **Prevention Strategies**: Architectural choices, initialization and normalization techniques
8. **Verification**: How to confirm the fix worked and regression-test it
9. **Complete Example**: Code showing the problem, the diagnosis, the fix, and before/after
10. **Related Issues**: Problems with similar symptoms and how to differentiate them
11. **Debugging Checklist**: Quick reference with commands and expected outputs

Include complete, runnable code for all diagnostic and fix examples.`,

	"general": `Research "%s" for software development purposes.

Provide a comprehensive programming-focused overview:
1. **Concept Overview**: What it is and why it matters for developers
2. **How It Works**: Technical explanation with pseudocode if helpful
3. **Code Examples**: Practical implementations in relevant languages
4. **Common Patterns**: Typical usage patterns and idioms
5. **Best Practices**: Industry-standard approaches and recommendations
6. **Gotchas & Pitfalls**: Common mistakes and how to avoid them
7. **Tools & Libraries**: Relevant ecosystem tools

Include working code examples with proper imports and error handling.`,
}

// researchPrompt renders the template for a category, falling back to
// "general" for unknown categories.
func researchPrompt(topic, category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	template, ok := researchPrompts[normalized]
	if !ok {
		template = researchPrompts["general"]
	}
	return fmt.Sprintf(template, topic)
}

// generalResearchPrompt builds the academic-style prompt for the
// general research tool. Unlike researchPrompt, the category is free
// text ("machine learning", "physics", ...) folded into the prompt, not
// a template key.
func generalResearchPrompt(topic, category string) string {
	if category == "" {
		category = "general"
	}
	return fmt.Sprintf(`Research %q in the context of %s.

Provide a comprehensive overview including:
1. **Definition and core concepts**
2. **Key principles and how it works**
3. **Practical examples and use cases**
4. **Important considerations and best practices**
5. **Related topics and further reading**

Use credible sources and cite where possible.`, topic, category)
}
