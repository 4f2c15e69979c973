package sqlite

const schema = `
BEGIN TRANSACTION;

CREATE TABLE
	IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tag TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_creator BOOLEAN NOT NULL DEFAULT FALSE,
		avatar_url TEXT,
		created datetime NOT NULL
	);

CREATE TABLE
	IF NOT EXISTS friendships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		requester INTEGER NOT NULL,
		recipient INTEGER NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('pending', 'accepted', 'rejected')),
		created datetime NOT NULL,
		UNIQUE (requester, recipient),
		FOREIGN KEY (requester) REFERENCES accounts (id),
		FOREIGN KEY (recipient) REFERENCES accounts (id)
	);

CREATE UNIQUE INDEX IF NOT EXISTS "Friendship Pair Index" ON "friendships" (MIN(requester, recipient), MAX(requester, recipient));

CREATE TABLE
	IF NOT EXISTS chats (
		id TEXT PRIMARY KEY,
		created datetime NOT NULL
	);

CREATE TABLE
	IF NOT EXISTS chat_participants (
		chat TEXT NOT NULL,
		account INTEGER NOT NULL,
		PRIMARY KEY (chat, account),
		FOREIGN KEY (chat) REFERENCES chats (id),
		FOREIGN KEY (account) REFERENCES accounts (id)
	);

CREATE TABLE
	IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		chat TEXT NOT NULL,
		sender INTEGER NOT NULL,
		text TEXT NOT NULL,
		created datetime NOT NULL,
		FOREIGN KEY (chat) REFERENCES chats (id),
		FOREIGN KEY (sender) REFERENCES accounts (id)
	);

CREATE TABLE
	IF NOT EXISTS scam_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		is_scammer BOOLEAN NOT NULL,
		report_count INTEGER NOT NULL DEFAULT 1,
		description TEXT NOT NULL,
		evidence_url TEXT NOT NULL,
		reported_by INTEGER,
		likes INTEGER NOT NULL DEFAULT 0,
		dislikes INTEGER NOT NULL DEFAULT 0,
		created datetime NOT NULL,
		updated datetime,
		FOREIGN KEY (reported_by) REFERENCES accounts (id)
	);

CREATE TABLE
	IF NOT EXISTS report_evidence (
		id TEXT PRIMARY KEY,
		report INTEGER NOT NULL,
		evidence_url TEXT NOT NULL,
		uploaded_by INTEGER,
		created datetime NOT NULL,
		FOREIGN KEY (report) REFERENCES scam_reports (id),
		FOREIGN KEY (uploaded_by) REFERENCES accounts (id)
	);

CREATE TABLE
	IF NOT EXISTS report_ratings (
		report INTEGER NOT NULL,
		rater INTEGER NOT NULL,
		rating TEXT NOT NULL CHECK (rating IN ('like', 'dislike')),
		created datetime NOT NULL,
		PRIMARY KEY (report, rater),
		FOREIGN KEY (report) REFERENCES scam_reports (id),
		FOREIGN KEY (rater) REFERENCES accounts (id)
	);

CREATE TABLE
	IF NOT EXISTS abuse_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reporter INTEGER NOT NULL,
		reported INTEGER NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'resolved')),
		created datetime NOT NULL,
		FOREIGN KEY (reporter) REFERENCES accounts (id),
		FOREIGN KEY (reported) REFERENCES accounts (id)
	);

COMMIT;
`
