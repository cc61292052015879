// Package markdown turns front-matter documents into articles and article
// bodies into display markup. It covers document parsing, field derivation,
// category mapping, directory discovery, shard ingestion, and the renderers.
package markdown
