package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeBenford() string {
	return `Compares the leading digits of per-file code metrics against Benford's Law.

Every file under the path is classified into code, documentation, empty and string
lines, and optionally measured for cyclomatic complexity. For each language the
first significant digit of every metric is counted and shown next to the count
Benford's Law predicts for the same number of files.

USE WHEN:
- Looking for generated, vendored or copy-pasted code hiding in a codebase
- Checking whether a language's file sizes grow organically
- Comparing the shape of several languages in one repository

INTERPRETING RESULTS:
- Organic codebases with a few hundred files or more roughly follow the curve
- A spike at one digit usually means many files of nearly the same size
- Small samples (n < 50) are noisy, do not read much into them
- undefined counts files whose metric is zero; they have no leading digit
- avg_ccn and sum_ccn are only present when complexity is enabled

METRICS RETURNED:
- Summary: analyzed, skipped and duplicate file counts, languages found
- Per language: files, and per metric the observed counts for digits 1-9,
  the expected Benford counts, total and undefined`
}
